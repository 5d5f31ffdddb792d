package rawtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Mode is the authoring form of a translate parameter list.
type Mode string

const (
	ModeSimple   Mode = "simple"   // A,B,C
	ModeVisual   Mode = "visual"   // 文本:A,计分板:@p|money,选择器:@a
	ModeAdvanced Mode = "advanced" // JSON
)

// Modes lists the valid modes.
var Modes = []Mode{ModeSimple, ModeVisual, ModeAdvanced}

// ParseMode parses a mode name case-insensitively. Empty means simple.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSimple:
		return ModeSimple, nil
	case ModeVisual:
		return ModeVisual, nil
	case ModeAdvanced:
		return ModeAdvanced, nil
	}
	return "", fmt.Errorf("unknown parameter mode %q (valid: simple, visual, advanced)", s)
}

// Visual-mode entry prefixes.
const (
	PrefixText     = "文本:"
	PrefixScore    = "计分板:"
	PrefixSelector = "选择器:"
)

// Params is a translate parameter list in one of the three modes.
type Params interface {
	Mode() Mode
	// Components returns the canonical parameter array.
	Components() []Component
	// String returns the authoring text for the mode.
	String() string
}

// SimpleParams is a plain list of text parameters.
type SimpleParams []string

// VisualParams holds text, score and selector parameters.
type VisualParams []Component

// AdvancedParams is a JSON parameter list. Source is the authored text; Items the normalized array.
type AdvancedParams struct {
	Source string
	Items  []Component
}

func (SimpleParams) Mode() Mode   { return ModeSimple }
func (VisualParams) Mode() Mode   { return ModeVisual }
func (AdvancedParams) Mode() Mode { return ModeAdvanced }

func (p SimpleParams) Components() []Component {
	out := make([]Component, 0, len(p))
	for _, s := range p {
		out = append(out, NewText(s))
	}
	return out
}

func (p SimpleParams) String() string {
	return strings.Join(p, ",")
}

func (p VisualParams) Components() []Component {
	return append([]Component(nil), p...)
}

func (p VisualParams) String() string {
	return FormatVisual(p)
}

func (p AdvancedParams) Components() []Component {
	return p.Items
}

func (p AdvancedParams) String() string {
	if p.Source != "" {
		return p.Source
	}
	if len(p.Items) == 0 {
		return ""
	}
	data, err := encodeJSON(p.Items)
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseParams reads raw in the given mode. Only advanced mode can fail.
func ParseParams(mode Mode, raw string) (Params, error) {
	switch mode {
	case ModeSimple, "":
		return parseSimple(raw), nil
	case ModeVisual:
		return parseVisual(raw), nil
	case ModeAdvanced:
		return parseAdvanced(raw)
	}
	return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidParams, mode)
}

// Resolve produces the canonical parameter array for raw in the given mode.
func Resolve(mode Mode, raw string) ([]Component, error) {
	p, err := ParseParams(mode, raw)
	if err != nil {
		return nil, err
	}
	return p.Components(), nil
}

func parseSimple(raw string) SimpleParams {
	var out SimpleParams
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseVisual(raw string) VisualParams {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	entries, err := splitTopLevel(raw, ',')
	if err != nil {
		entries = strings.Split(raw, ",")
	}
	var out VisualParams
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, parseVisualEntry(e))
		}
	}
	return out
}

func parseVisualEntry(e string) Component {
	switch {
	case strings.HasPrefix(e, PrefixText):
		return NewText(strings.TrimSpace(strings.TrimPrefix(e, PrefixText)))
	case strings.HasPrefix(e, PrefixScore):
		name, objective, _ := strings.Cut(strings.TrimPrefix(e, PrefixScore), "|")
		return NewScore(strings.TrimSpace(name), strings.TrimSpace(objective))
	case strings.HasPrefix(e, PrefixSelector):
		sel := strings.TrimSpace(strings.TrimPrefix(e, PrefixSelector))
		if sel == "" {
			sel = DefaultScoreName
		}
		return NewSelector(sel)
	}
	return NewText(e)
}

func parseAdvanced(raw string) (AdvancedParams, error) {
	src := strings.TrimSpace(raw)
	if src == "" {
		return AdvancedParams{}, nil
	}
	data := []byte(src)
	if !json.Valid(data) {
		var v interface{}
		err := json.Unmarshal(data, &v)
		return AdvancedParams{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	var items []Component
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return AdvancedParams{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return AdvancedParams{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		wrapped, key := fields["rawtext"], "rawtext"
		if wrapped == nil {
			wrapped, key = fields["parameters"], "parameters"
		}
		if wrapped != nil && len(fields) == 1 {
			var err error
			if items, err = decodeComponentArray(wrapped); err != nil {
				return AdvancedParams{}, fmt.Errorf("%w: %s: %v", ErrInvalidParams, key, err)
			}
			break
		}
		// A lone component object stands for a one-element list.
		var c Component
		if err := json.Unmarshal(data, &c); err != nil {
			return AdvancedParams{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		items = []Component{c}
	default:
		return AdvancedParams{}, fmt.Errorf("%w: expected an array or object, got %s", ErrInvalidParams, truncateJSON(data))
	}
	return AdvancedParams{Source: src, Items: items}, nil
}

// FormatVisual renders components in visual-mode syntax. Kinds visual mode cannot express
// are written as text of their JSON.
func FormatVisual(comps []Component) string {
	parts := make([]string, 0, len(comps))
	for _, c := range comps {
		switch c.Kind {
		case KindText:
			parts = append(parts, PrefixText+c.Text)
		case KindScore:
			parts = append(parts, PrefixScore+c.Score.Name+"|"+c.Score.Objective)
		case KindSelector:
			parts = append(parts, PrefixSelector+c.Selector)
		default:
			data, _ := c.MarshalJSON()
			parts = append(parts, PrefixText+string(data))
		}
	}
	return strings.Join(parts, ",")
}

// ToSimple converts p to simple mode. ok is false when a typed parameter was flattened to text.
func ToSimple(p Params) (out SimpleParams, ok bool) {
	if s, isSimple := p.(SimpleParams); isSimple {
		return s, true
	}
	ok = true
	for _, c := range p.Components() {
		if c.Kind != KindText || !simpleSafe(c.Text) {
			ok = false
		}
		if s := renderArg(c); strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out, ok
}

// ToVisual converts p to visual mode. ok is false when a parameter had to be flattened.
func ToVisual(p Params) (out VisualParams, ok bool) {
	if v, isVisual := p.(VisualParams); isVisual {
		return v, true
	}
	ok = true
	for _, c := range p.Components() {
		switch c.Kind {
		case KindText, KindScore, KindSelector:
			if len(c.Extra) > 0 {
				ok = false
				c.Extra = nil
			}
			out = append(out, c)
		default:
			ok = false
			out = append(out, NewText(renderArg(c)))
		}
	}
	return out, ok
}

// ToAdvanced converts p to advanced mode. It never loses information.
func ToAdvanced(p Params) AdvancedParams {
	if a, isAdvanced := p.(AdvancedParams); isAdvanced {
		return a
	}
	a := AdvancedParams{Items: p.Components()}
	a.Source = a.String()
	return a
}

// ClassifyWith maps a decoded "with" value back to an authoring mode.
//
// Bare strings (or plain text components) that survive simple-mode splitting classify
// as simple. Text, score and selector lists that survive visual-mode splitting classify
// as visual. Everything else, including the {"rawtext":[...]} wrapper and shapes the
// decoder does not recognize, falls back to advanced with the wire JSON as its source.
func ClassifyWith(w *With) Params {
	if w.Empty() {
		return SimpleParams(nil)
	}

	if w.Shape == WithStrings || w.Shape == WithComponents {
		comps := w.Params()
		if simple, ok := asSimple(comps); ok {
			return simple
		}
		if visual, ok := asVisual(comps); ok {
			return visual
		}
	}

	src, err := w.MarshalJSON()
	if err != nil {
		src = w.Raw
	}
	return AdvancedParams{Source: string(src), Items: w.Params()}
}

func asSimple(comps []Component) (SimpleParams, bool) {
	out := make(SimpleParams, 0, len(comps))
	for _, c := range comps {
		if !c.isPlainText() || !simpleSafe(c.Text) {
			return nil, false
		}
		out = append(out, c.Text)
	}
	return out, true
}

func asVisual(comps []Component) (VisualParams, bool) {
	for _, c := range comps {
		if len(c.Extra) > 0 {
			return nil, false
		}
		switch c.Kind {
		case KindText:
			if !visualSafe(c.Text) {
				return nil, false
			}
		case KindSelector:
			if !visualSafe(c.Selector) {
				if _, err := ParseSelector(c.Selector); err != nil || strings.TrimSpace(c.Selector) != c.Selector {
					return nil, false
				}
			}
		case KindScore:
			if !visualSafe(c.Score.Name) || !visualSafe(c.Score.Objective) ||
				strings.Contains(c.Score.Name, "|") {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return VisualParams(comps), true
}

// simpleSafe reports whether s survives split-on-comma and trim unchanged.
func simpleSafe(s string) bool {
	return s != "" && s == strings.TrimSpace(s) && !strings.Contains(s, ",")
}

// visualSafe is simpleSafe without delimiters the top-level splitter tracks.
func visualSafe(s string) bool {
	return simpleSafe(s) && !strings.ContainsAny(s, "{}[]\"")
}

// renderArg is the human rendering of one parameter.
func renderArg(c Component) string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindScore:
		return c.Score.Name + "的" + c.Score.Objective
	case KindSelector:
		return "[" + c.Selector + "]"
	case KindTranslate:
		return c.Translate
	case KindRawText:
		var b bytes.Buffer
		for _, child := range c.Children {
			b.WriteString(renderArg(child))
		}
		return b.String()
	default:
		return string(c.Raw)
	}
}
