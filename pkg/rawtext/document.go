package rawtext

import (
	"strings"
)

// Node is an entry of a Document: TextRun, LineBreak or one of the feature nodes.
type Node interface {
	node()
}

// FeatureKind names the typed feature nodes.
type FeatureKind string

const (
	FeatureSelector    FeatureKind = "selector"
	FeatureScore       FeatureKind = "score"
	FeatureTranslate   FeatureKind = "translate"
	FeatureConditional FeatureKind = "conditional"
)

// Feature is an atomic typed node that expands into components when serialized.
type Feature interface {
	Node
	Kind() FeatureKind
}

// TextRun is plain text. It may contain "\n".
type TextRun struct {
	Text string
}

// LineBreak is a forced newline.
type LineBreak struct{}

// SelectorNode references entities. An empty selector serializes as @p.
type SelectorNode struct {
	Selector string
}

// ScoreNode references a scoreboard value. Empty fields take the score defaults.
type ScoreNode struct {
	Name      string
	Objective string
}

// TranslateNode is a localized-text reference. With holds the parameters in the authoring
// form given by Mode. Style, when set, overrides the serializer's wire shape for them.
type TranslateNode struct {
	Key   string
	Mode  Mode
	With  string
	Style WithStyle
}

// ConditionalNode shows its then-branch only when Condition resolves.
//
// Condition is the JSON of one component. The branch is Body when it is non-nil,
// otherwise the JSON array in Then.
type ConditionalNode struct {
	Condition string
	Then      string
	Body      Document
}

func (TextRun) node()         {}
func (LineBreak) node()       {}
func (SelectorNode) node()    {}
func (ScoreNode) node()       {}
func (TranslateNode) node()   {}
func (ConditionalNode) node() {}

func (SelectorNode) Kind() FeatureKind    { return FeatureSelector }
func (ScoreNode) Kind() FeatureKind       { return FeatureScore }
func (TranslateNode) Kind() FeatureKind   { return FeatureTranslate }
func (ConditionalNode) Kind() FeatureKind { return FeatureConditional }

// NewTranslateNode stores p in its authoring form.
func NewTranslateNode(key string, p Params) TranslateNode {
	n := TranslateNode{Key: key, Mode: ModeSimple}
	if p != nil {
		n.Mode = p.Mode()
		n.With = p.String()
	}
	return n
}

// Params parses the stored parameters.
func (n TranslateNode) Params() (Params, error) {
	return ParseParams(n.Mode, n.With)
}

// NewConditionalNode stores a decoded conditional as JSON facts.
func NewConditionalNode(c *Conditional) (ConditionalNode, error) {
	cond, err := encodeJSON(c.Condition)
	if err != nil {
		return ConditionalNode{}, err
	}
	then := c.Then
	if then == nil {
		then = []Component{}
	}
	branch, err := encodeJSON(then)
	if err != nil {
		return ConditionalNode{}, err
	}
	return ConditionalNode{Condition: string(cond), Then: string(branch)}, nil
}

// Document is an immutable snapshot of the edited message.
type Document []Node

// PlainText returns the text content with line breaks as "\n", normalized the way the
// serializer normalizes text. Feature nodes contribute nothing. Trailing newlines are
// dropped since the serializer trims one.
func (d Document) PlainText() string {
	var b strings.Builder
	for _, n := range d {
		switch n := n.(type) {
		case TextRun:
			b.WriteString(normalizeText(n.Text))
		case LineBreak:
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Features returns the feature nodes in order, descending into conditional bodies.
func (d Document) Features() []Feature {
	var out []Feature
	for _, n := range d {
		f, ok := n.(Feature)
		if !ok {
			continue
		}
		out = append(out, f)
		if c, ok := f.(ConditionalNode); ok {
			out = append(out, c.Body.Features()...)
		}
	}
	return out
}

var textReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u00a0", " ",
	"\u200b", "",
)

// normalizeText unifies line endings, turns non-breaking spaces into spaces and strips
// zero-width spaces.
func normalizeText(s string) string {
	return textReplacer.Replace(s)
}
