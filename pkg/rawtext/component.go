// Package rawtext converts between an editable document of inline nodes and the
// nested RawText message format ({"rawtext":[...]}) consumed by the game engine.
package rawtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Default score reference fields, used whenever a score is missing one.
const (
	DefaultScoreName      = "@p"
	DefaultScoreObjective = "score"
)

// Kind identifies which variant of the component union is populated.
type Kind int

const (
	KindText      Kind = iota // {"text": ...}
	KindSelector              // {"selector": ...}
	KindScore                 // {"score": {"name", "objective"}}
	KindTranslate             // {"translate": ..., "with": ...}
	KindRawText               // nested {"rawtext": [...]} group
	KindRaw                   // unrecognized object, kept verbatim
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSelector:
		return "selector"
	case KindScore:
		return "score"
	case KindTranslate:
		return "translate"
	case KindRawText:
		return "rawtext"
	default:
		return "raw"
	}
}

// Score is the body of a scoreboard reference.
type Score struct {
	Name      string `json:"name"`
	Objective string `json:"objective"`
}

// Component is one entry of a RawText message. Only the fields matching Kind are meaningful.
type Component struct {
	Kind      Kind
	Text      string
	Selector  string
	Score     Score
	Translate string
	With      *With
	Children  []Component // KindRawText

	// Raw holds the original object for KindRaw.
	Raw json.RawMessage
	// Extra keeps keys the union does not model (e.g. "color") so they survive a round trip.
	Extra map[string]json.RawMessage
}

// NewText returns a {"text": s} component.
func NewText(s string) Component {
	return Component{Kind: KindText, Text: s}
}

// NewSelector returns a {"selector": s} component.
func NewSelector(s string) Component {
	return Component{Kind: KindSelector, Selector: s}
}

// NewScore returns a score component, applying the default name and objective when empty.
func NewScore(name, objective string) Component {
	if name == "" {
		name = DefaultScoreName
	}
	if objective == "" {
		objective = DefaultScoreObjective
	}
	return Component{Kind: KindScore, Score: Score{Name: name, Objective: objective}}
}

// NewTranslate returns a translate component. A nil or empty with is omitted on the wire.
func NewTranslate(key string, with *With) Component {
	return Component{Kind: KindTranslate, Translate: key, With: with}
}

// NewRawText returns a nested {"rawtext": [...]} group.
func NewRawText(children []Component) Component {
	return Component{Kind: KindRawText, Children: children}
}

// IsNewline reports whether c is the dedicated {"text":"\n"} line-break component.
func (c Component) IsNewline() bool {
	return c.Kind == KindText && c.Text == "\n" && len(c.Extra) == 0
}

// isPlainText reports whether c is a text component that may be merged with a neighbour.
func (c Component) isPlainText() bool {
	return c.Kind == KindText && len(c.Extra) == 0 && c.Text != "\n"
}

// MarshalJSON writes the component with its keys in a stable order.
func (c Component) MarshalJSON() ([]byte, error) {
	if c.Kind == KindRaw {
		if len(c.Raw) == 0 {
			return []byte("{}"), nil
		}
		return c.Raw, nil
	}

	w := &objectWriter{}
	switch c.Kind {
	case KindText:
		w.field("text", c.Text)
	case KindSelector:
		w.field("selector", c.Selector)
	case KindScore:
		w.field("score", c.Score)
	case KindTranslate:
		w.field("translate", c.Translate)
		if !c.With.Empty() {
			w.field("with", c.With)
		}
	case KindRawText:
		children := c.Children
		if children == nil {
			children = []Component{}
		}
		w.field("rawtext", children)
	}

	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.field(k, c.Extra[k])
	}

	return w.close()
}

// UnmarshalJSON accepts a component object. A bare JSON string decodes as a text component,
// which is how flat string parameter lists are read.
func (c *Component) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty component")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = NewText(s)
		return nil
	}
	if data[0] != '{' {
		return fmt.Errorf("component must be a JSON object, got %s", truncateJSON(data))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out Component
	switch {
	case has(fields, "text"):
		out.Kind = KindText
		if err := json.Unmarshal(fields["text"], &out.Text); err != nil {
			return fmt.Errorf("text: %w", err)
		}
		delete(fields, "text")

	case has(fields, "selector"):
		out.Kind = KindSelector
		if err := json.Unmarshal(fields["selector"], &out.Selector); err != nil {
			return fmt.Errorf("selector: %w", err)
		}
		delete(fields, "selector")

	case has(fields, "score"):
		var s struct {
			Name      *string `json:"name"`
			Objective *string `json:"objective"`
		}
		if err := json.Unmarshal(fields["score"], &s); err != nil {
			return fmt.Errorf("score: %w", err)
		}
		var name, objective string
		if s.Name != nil {
			name = *s.Name
		}
		if s.Objective != nil {
			objective = *s.Objective
		}
		out = NewScore(name, objective)
		delete(fields, "score")

	case has(fields, "translate"):
		out.Kind = KindTranslate
		if err := json.Unmarshal(fields["translate"], &out.Translate); err != nil {
			return fmt.Errorf("translate: %w", err)
		}
		if raw, ok := fields["with"]; ok && !isNull(raw) {
			var w With
			if err := json.Unmarshal(raw, &w); err != nil {
				return fmt.Errorf("with: %w", err)
			}
			out.With = &w
		}
		delete(fields, "translate")
		delete(fields, "with")

	case has(fields, "rawtext"):
		children, err := decodeComponentArray(fields["rawtext"])
		if err != nil {
			// Not a usable group; keep the object verbatim.
			*c = Component{Kind: KindRaw, Raw: append(json.RawMessage(nil), data...)}
			return nil
		}
		out.Kind = KindRawText
		out.Children = children
		delete(fields, "rawtext")

	default:
		out.Kind = KindRaw
		out.Raw = append(json.RawMessage(nil), data...)
		*c = out
		return nil
	}

	if len(fields) > 0 {
		out.Extra = fields
	}
	*c = out
	return nil
}

// decodeComponentArray decodes a JSON array of components, rejecting anything else.
func decodeComponentArray(raw json.RawMessage) ([]Component, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("expected an array, got %s", truncateJSON(raw))
	}
	var out []Component
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func has(fields map[string]json.RawMessage, key string) bool {
	_, ok := fields[key]
	return ok
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func truncateJSON(data []byte) string {
	const limit = 32
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}

// objectWriter builds a JSON object with keys in insertion order.
type objectWriter struct {
	buf   bytes.Buffer
	count int
	err   error
}

func (w *objectWriter) field(key string, value interface{}) {
	if w.err != nil {
		return
	}
	if w.count == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.count++

	k, err := encodeJSON(key)
	if err != nil {
		w.err = err
		return
	}
	v, err := encodeJSON(value)
	if err != nil {
		w.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
}

func (w *objectWriter) close() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.count == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

// encodeJSON marshals v without HTML escaping; chat text routinely contains < > &.
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
