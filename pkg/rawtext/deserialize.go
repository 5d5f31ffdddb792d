package rawtext

import (
	"strings"

	"go.uber.org/zap"
)

// Deserialize rebuilds a document from message components.
//
// Text is split on "\n" into runs and LineBreak nodes. Typed components become feature
// nodes; translate parameters are classified back into an authoring mode with
// ClassifyWith, and translates matching the conditional idiom become ConditionalNodes.
// Nested rawtext groups are flattened. Objects that are not components are skipped.
func Deserialize(comps []Component, opts ...Option) Document {
	d := &deserializer{opts: newOptions(opts)}
	d.walk(comps)
	return mergeRuns(d.doc)
}

// DecodeMessage parses a {"rawtext":[...]} document and deserializes it. Structural
// problems wrap ErrInvalidMessage and yield no document.
func DecodeMessage(data []byte, opts ...Option) (Document, error) {
	msg, err := ParseMessage(data)
	if err != nil {
		return nil, err
	}
	return Deserialize(msg.RawText, opts...), nil
}

type deserializer struct {
	opts *options
	doc  Document
}

func (d *deserializer) walk(comps []Component) {
	for _, c := range comps {
		switch c.Kind {
		case KindText:
			d.text(c.Text)
		case KindSelector:
			d.doc = append(d.doc, SelectorNode{Selector: c.Selector})
		case KindScore:
			d.doc = append(d.doc, ScoreNode{Name: c.Score.Name, Objective: c.Score.Objective})
		case KindTranslate:
			d.doc = append(d.doc, d.translate(c))
		case KindRawText:
			d.walk(c.Children)
		default:
			d.opts.log.Warn("skipping unrecognized component", zap.ByteString("json", c.Raw))
		}
		if len(c.Extra) > 0 {
			d.opts.log.Debug("dropping component attributes",
				zap.String("kind", c.Kind.String()),
				zap.Int("count", len(c.Extra)),
			)
		}
	}
}

func (d *deserializer) text(s string) {
	s = normalizeText(s)
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			d.doc = append(d.doc, LineBreak{})
		}
		if line != "" {
			d.doc = append(d.doc, TextRun{Text: line})
		}
	}
}

func (d *deserializer) translate(c Component) Node {
	if cond, ok := DecodeConditional(c); ok {
		n, err := NewConditionalNode(cond)
		if err == nil {
			return n
		}
		d.opts.log.Warn("conditional kept as translate", zap.Error(err))
	}
	n := NewTranslateNode(c.Translate, ClassifyWith(c.With))
	n.Style = c.With.Style()
	return n
}

// mergeRuns joins adjacent text runs.
func mergeRuns(doc Document) Document {
	out := make(Document, 0, len(doc))
	for _, n := range doc {
		if t, ok := n.(TextRun); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(TextRun); ok {
				out[len(out)-1] = TextRun{Text: prev.Text + t.Text}
				continue
			}
		}
		out = append(out, n)
	}
	return out
}
