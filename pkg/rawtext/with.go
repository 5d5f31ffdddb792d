package rawtext

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WithShape records which of the accepted wire shapes a translate "with" value had.
type WithShape int

const (
	WithStrings    WithShape = iota // ["a", "b"]
	WithComponents                  // [{"text":"a"}, {"selector":"@p"}]
	WithRawText                     // {"rawtext": [...]}
	WithUnknown                     // anything else, kept verbatim
)

// With is the parameter set of a translate component.
type With struct {
	Shape      WithShape
	Strings    []string
	Components []Component
	Raw        json.RawMessage
}

// WithStyle selects the wire shape used when serializing resolved parameters.
type WithStyle string

const (
	WithStyleRawText WithStyle = "rawtext" // {"rawtext": [...]}
	WithStyleArray   WithStyle = "array"   // [...]
	WithStyleStrings WithStyle = "strings" // ["a", "b"] when every parameter is plain text
)

// ParseWithStyle parses a style name. Empty means the rawtext wrapper.
func ParseWithStyle(s string) (WithStyle, error) {
	switch WithStyle(s) {
	case "", WithStyleRawText:
		return WithStyleRawText, nil
	case WithStyleArray, WithStyleStrings:
		return WithStyle(s), nil
	}
	return "", fmt.Errorf("unknown with style %q (valid: rawtext, array, strings)", s)
}

// NewWith wraps resolved parameters in the requested wire shape. The strings style
// falls back to a component array when a parameter is not plain text.
func NewWith(style WithStyle, params []Component) *With {
	switch style {
	case WithStyleArray:
		return &With{Shape: WithComponents, Components: params}
	case WithStyleStrings:
		strs := make([]string, 0, len(params))
		for _, p := range params {
			if !p.isPlainText() && !p.IsNewline() {
				return &With{Shape: WithComponents, Components: params}
			}
			strs = append(strs, p.Text)
		}
		return &With{Shape: WithStrings, Strings: strs}
	}
	return &With{Shape: WithRawText, Components: params}
}

// Style reports the wire style matching the recorded shape.
func (w *With) Style() WithStyle {
	if w == nil {
		return ""
	}
	switch w.Shape {
	case WithStrings:
		return WithStyleStrings
	case WithComponents:
		return WithStyleArray
	case WithRawText:
		return WithStyleRawText
	}
	return ""
}

// Empty reports whether the parameter set carries nothing. A nil receiver is empty.
func (w *With) Empty() bool {
	if w == nil {
		return true
	}
	switch w.Shape {
	case WithStrings:
		return len(w.Strings) == 0
	case WithUnknown:
		return len(w.Raw) == 0
	default:
		return len(w.Components) == 0
	}
}

// Params returns the parameters as components, turning bare strings into text components.
// Unknown shapes yield nil.
func (w *With) Params() []Component {
	if w == nil {
		return nil
	}
	switch w.Shape {
	case WithStrings:
		out := make([]Component, 0, len(w.Strings))
		for _, s := range w.Strings {
			out = append(out, NewText(s))
		}
		return out
	case WithComponents, WithRawText:
		return w.Components
	default:
		return nil
	}
}

// MarshalJSON writes the parameter set in its recorded shape.
func (w With) MarshalJSON() ([]byte, error) {
	switch w.Shape {
	case WithStrings:
		strs := w.Strings
		if strs == nil {
			strs = []string{}
		}
		return encodeJSON(strs)
	case WithComponents:
		comps := w.Components
		if comps == nil {
			comps = []Component{}
		}
		return encodeJSON(comps)
	case WithRawText:
		return NewRawText(w.Components).MarshalJSON()
	default:
		if len(w.Raw) == 0 {
			return []byte("[]"), nil
		}
		return w.Raw, nil
	}
}

// UnmarshalJSON accepts a flat string array, a component array (strings allowed as
// elements), or a {"rawtext": [...]} wrapper. Other values, including arrays holding
// non-component elements, are kept as WithUnknown.
func (w *With) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty with value")
	}

	switch data[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return err
		}
		allStrings := true
		for _, e := range elems {
			if e = bytes.TrimSpace(e); len(e) == 0 || e[0] != '"' {
				allStrings = false
				break
			}
		}
		if allStrings {
			var strs []string
			if err := json.Unmarshal(data, &strs); err != nil {
				return err
			}
			*w = With{Shape: WithStrings, Strings: strs}
			return nil
		}
		var comps []Component
		if err := json.Unmarshal(data, &comps); err == nil {
			*w = With{Shape: WithComponents, Components: comps}
			return nil
		}

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		if raw, ok := fields["rawtext"]; ok {
			if comps, err := decodeComponentArray(raw); err == nil {
				*w = With{Shape: WithRawText, Components: comps}
				return nil
			}
		}
	}

	*w = With{Shape: WithUnknown, Raw: append(json.RawMessage(nil), data...)}
	return nil
}
