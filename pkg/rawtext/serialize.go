package rawtext

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Placeholder texts emitted in place of a node that failed to serialize.
const (
	TranslateErrorText   = "[翻译处理错误]"
	ConditionalErrorText = "[条件块解析错误]"
)

// FeatureErrorText is the placeholder for any other failed feature node.
func FeatureErrorText(kind FeatureKind) string {
	return fmt.Sprintf("[%s处理错误]", kind)
}

type options struct {
	log   *zap.Logger
	style WithStyle
}

// Option configures Serialize, Deserialize and DecodeMessage.
type Option func(*options)

// WithLogger logs per-node recoveries. The default logger discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithParamStyle sets the wire shape of translate parameters. Default WithStyleRawText.
func WithParamStyle(s WithStyle) Option {
	return func(o *options) {
		if s != "" {
			o.style = s
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{log: zap.NewNop(), style: WithStyleRawText}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SerializeResult holds a serialized message and the per-node problems that were
// recovered from while producing it.
type SerializeResult struct {
	Message  Message
	Warnings []string
}

// AddWarning records a non-fatal problem.
func (r *SerializeResult) AddWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Serialize converts doc into a RawText message.
//
// Text accumulates until a line break, where it is flushed and followed by a {"text":"\n"}
// component. Feature nodes expand into their components. A node that cannot be expanded
// is replaced with a placeholder text and reported in Warnings. Afterwards adjacent plain
// texts are merged and one trailing newline component is dropped. A document with no
// content returns ErrEmptyMessage.
func Serialize(doc Document, opts ...Option) (*SerializeResult, error) {
	s := &serializer{opts: newOptions(opts), result: &SerializeResult{}}
	comps := s.serialize(doc)
	if len(comps) == 0 {
		return nil, ErrEmptyMessage
	}
	s.result.Message = Message{RawText: comps}
	return s.result, nil
}

type serializer struct {
	opts    *options
	result  *SerializeResult
	out     []Component
	pending strings.Builder
}

// serialize walks doc into a fresh component list. It is reentrant for conditional bodies.
func (s *serializer) serialize(doc Document) []Component {
	saved := s.out
	savedPending := s.pending.String()
	s.out = nil
	s.pending.Reset()

	s.walk(doc)
	s.flush()
	comps := trimTrailingNewline(mergeText(s.out))

	s.out = saved
	s.pending.Reset()
	s.pending.WriteString(savedPending)
	return comps
}

func (s *serializer) walk(doc Document) {
	for _, n := range doc {
		switch n := n.(type) {
		case TextRun:
			for i, line := range strings.Split(normalizeText(n.Text), "\n") {
				if i > 0 {
					s.lineBreak()
				}
				s.pending.WriteString(line)
			}
		case LineBreak:
			s.lineBreak()
		case Feature:
			s.flush()
			s.out = append(s.out, s.expand(n)...)
		}
	}
}

func (s *serializer) flush() {
	if s.pending.Len() == 0 {
		return
	}
	s.out = append(s.out, NewText(s.pending.String()))
	s.pending.Reset()
}

func (s *serializer) lineBreak() {
	s.flush()
	s.out = append(s.out, NewText("\n"))
}

func (s *serializer) expand(f Feature) []Component {
	switch n := f.(type) {
	case SelectorNode:
		sel := strings.TrimSpace(n.Selector)
		if sel == "" {
			sel = DefaultScoreName
		}
		if _, err := ParseSelector(sel); err != nil {
			s.warn(f, err)
		}
		return []Component{NewSelector(sel)}

	case ScoreNode:
		return []Component{NewScore(strings.TrimSpace(n.Name), strings.TrimSpace(n.Objective))}

	case TranslateNode:
		c, err := s.translate(n)
		if err != nil {
			s.warn(f, err)
			return []Component{NewText(TranslateErrorText)}
		}
		return []Component{c}

	case ConditionalNode:
		c, err := s.conditional(n)
		if err != nil {
			s.warn(f, err)
			return []Component{NewText(ConditionalErrorText)}
		}
		return []Component{c}
	}

	s.warn(f, fmt.Errorf("unsupported feature"))
	return []Component{NewText(FeatureErrorText(f.Kind()))}
}

func (s *serializer) translate(n TranslateNode) (Component, error) {
	key := strings.TrimSpace(n.Key)
	if key == "" {
		return Component{}, fmt.Errorf("%w: empty translate key", ErrInvalidParams)
	}
	params, err := n.Params()
	if err != nil {
		return Component{}, err
	}
	comps := params.Components()
	if len(comps) == 0 {
		return NewTranslate(key, nil), nil
	}
	style := s.opts.style
	if n.Style != "" {
		style = n.Style
	}
	return NewTranslate(key, NewWith(style, comps)), nil
}

func (s *serializer) conditional(n ConditionalNode) (Component, error) {
	var (
		cond *Conditional
		err  error
	)
	if n.Body != nil {
		cond, err = ParseConditional(n.Condition, "")
		if err != nil {
			return Component{}, err
		}
		cond.Then = s.serialize(n.Body)
	} else {
		cond, err = ParseConditional(n.Condition, n.Then)
		if err != nil {
			return Component{}, err
		}
	}
	return EncodeConditional(cond.Condition, cond.Then), nil
}

func (s *serializer) warn(f Feature, err error) {
	s.result.AddWarning("%s: %v", f.Kind(), err)
	s.opts.log.Warn("recovered feature node",
		zap.String("kind", string(f.Kind())),
		zap.Error(err),
	)
}

// mergeText joins adjacent plain text components. Newline components are never merged.
func mergeText(comps []Component) []Component {
	out := make([]Component, 0, len(comps))
	for _, c := range comps {
		if n := len(out); n > 0 && c.isPlainText() && out[n-1].isPlainText() {
			out[n-1].Text += c.Text
			continue
		}
		out = append(out, c)
	}
	return out
}

func trimTrailingNewline(comps []Component) []Component {
	if n := len(comps); n > 0 && comps[n-1].IsNewline() {
		return comps[:n-1]
	}
	return comps
}
