package rawtext

import (
	"strings"
)

// Bases are the selector base tokens the builder emits.
var Bases = []string{"@p", "@r", "@a", "@e", "@s", "@n"}

// IsKnownBase reports whether base is one of Bases.
func IsKnownBase(base string) bool {
	for _, b := range Bases {
		if b == base {
			return true
		}
	}
	return false
}

// Param is one key=value entry of a selector argument list.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Selector is a parsed entity selector. Params keep their source order and may repeat a key
// (tag=a,tag=!b is the usual way to list several tags).
type Selector struct {
	Base   string  `json:"base"`
	Params []Param `json:"params,omitempty"`
}

// Keys with a nested record grammar.
const (
	KeyHasItem = "hasitem"
	KeyScores  = "scores"
	KeyTag     = "tag"
)

// ParseSelector parses "@base[key=value,...]".
//
// Unknown bases are passed through. hasitem and scores values are checked against their
// nested grammar. An entry without "=" directly after a tag entry continues the tag list,
// so "@a[tag=a,!b]" reads as two tag params.
func ParseSelector(s string) (*Selector, error) {
	input := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, selectorErr(input, -1, "empty selector")
	}
	if s[0] != '@' {
		return nil, selectorErr(input, 0, "selector must start with @")
	}

	end := strings.IndexByte(s, '[')
	if end < 0 {
		end = len(s)
	}
	base := strings.TrimSpace(s[:end])
	if len(base) < 2 {
		return nil, selectorErr(input, 1, "missing selector base")
	}
	for i, r := range base[1:] {
		if !isBaseRune(r) {
			return nil, selectorErr(input, i+1, "unexpected %q in selector base", r)
		}
	}

	sel := &Selector{Base: base}
	rest := s[end:]
	if rest == "" {
		return sel, nil
	}
	if rest[len(rest)-1] != ']' {
		return nil, selectorErr(input, len(s)-1, "missing closing ]")
	}

	inner := rest[1 : len(rest)-1]
	if strings.TrimSpace(inner) == "" {
		return sel, nil
	}
	entries, err := splitTopLevel(inner, ',')
	if err != nil {
		return nil, rebase(err, input, end+1)
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, selectorErr(input, -1, "empty argument")
		}
		eq := strings.IndexByte(entry, '=')
		if eq < 0 {
			if n := len(sel.Params); n > 0 && sel.Params[n-1].Key == KeyTag {
				sel.Params = append(sel.Params, Param{Key: KeyTag, Value: entry})
				continue
			}
			return nil, selectorErr(input, -1, "argument %q has no value", entry)
		}
		p := Param{
			Key:   strings.TrimSpace(entry[:eq]),
			Value: strings.TrimSpace(entry[eq+1:]),
		}
		if p.Key == "" {
			return nil, selectorErr(input, -1, "argument %q has no key", entry)
		}
		if err := validateParam(p); err != nil {
			return nil, err
		}
		sel.Params = append(sel.Params, p)
	}
	return sel, nil
}

// BuildSelector formats base and params as a canonical selector string.
//
// base may be given with or without the leading "@" and must be a known base. A tag value
// holding a comma list is expanded into one tag entry per element. Param order is kept.
func BuildSelector(base string, params []Param) (string, error) {
	if !strings.HasPrefix(base, "@") {
		base = "@" + base
	}
	if !IsKnownBase(base) {
		return "", selectorErr(base, -1, "unknown base, expected one of %s", strings.Join(Bases, " "))
	}

	out := make([]Param, 0, len(params))
	for _, p := range params {
		p.Key = strings.TrimSpace(p.Key)
		if p.Key == "" || strings.ContainsAny(p.Key, "=,[]{}\" ") {
			return "", selectorErr(p.Key, -1, "invalid argument key")
		}
		if p.Key == KeyTag && strings.Contains(p.Value, ",") {
			for _, t := range ParseTags(p.Value) {
				out = append(out, Param{Key: KeyTag, Value: t.String()})
			}
			continue
		}
		if err := validateParam(p); err != nil {
			return "", err
		}
		if _, err := splitTopLevel(p.Value, ','); err != nil {
			return "", err
		}
		out = append(out, p)
	}
	return formatSelector(base, out), nil
}

// Get returns the first value for key.
func (s *Selector) Get(key string) (string, bool) {
	for _, p := range s.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Values returns every value for key in order.
func (s *Selector) Values(key string) []string {
	var out []string
	for _, p := range s.Params {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// Set replaces the first entry for key and drops the others, or appends when absent.
func (s *Selector) Set(key, value string) {
	kept := s.Params[:0]
	found := false
	for _, p := range s.Params {
		if p.Key != key {
			kept = append(kept, p)
			continue
		}
		if !found {
			found = true
			kept = append(kept, Param{Key: key, Value: value})
		}
	}
	s.Params = kept
	if !found {
		s.Params = append(s.Params, Param{Key: key, Value: value})
	}
}

// Del removes every entry for key.
func (s *Selector) Del(key string) {
	kept := s.Params[:0]
	for _, p := range s.Params {
		if p.Key != key {
			kept = append(kept, p)
		}
	}
	s.Params = kept
}

// Map returns the params as a map. Repeated keys are joined with ",".
func (s *Selector) Map() map[string]string {
	m := make(map[string]string, len(s.Params))
	for _, p := range s.Params {
		if prev, ok := m[p.Key]; ok {
			m[p.Key] = prev + "," + p.Value
			continue
		}
		m[p.Key] = p.Value
	}
	return m
}

// Tags returns all tag conditions across every tag entry.
func (s *Selector) Tags() []Tag {
	var out []Tag
	for _, v := range s.Values(KeyTag) {
		out = append(out, ParseTags(v)...)
	}
	return out
}

// String formats the selector without validating it.
func (s *Selector) String() string {
	return formatSelector(s.Base, s.Params)
}

func formatSelector(base string, params []Param) string {
	if len(params) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('[')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	b.WriteByte(']')
	return b.String()
}

func validateParam(p Param) error {
	switch p.Key {
	case KeyHasItem:
		_, err := ParseHasItem(p.Value)
		return err
	case KeyScores:
		_, err := ParseScores(p.Value)
		return err
	}
	return nil
}

func isBaseRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

// splitTopLevel splits s on sep, ignoring separators nested in braces, brackets or
// double quotes. Unbalanced delimiters are an error.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var (
		parts   []string
		stack   []byte
		start   int
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quoted {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				quoted = false
			}
			continue
		}
		switch c {
		case '"':
			quoted = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			open := byte('{')
			if c == ']' {
				open = '['
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return nil, selectorErr(s, i, "unbalanced %q", c)
			}
			stack = stack[:len(stack)-1]
		case sep:
			if len(stack) == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if quoted {
		return nil, selectorErr(s, len(s), "unterminated quote")
	}
	if len(stack) > 0 {
		return nil, selectorErr(s, len(s), "unclosed %q", stack[len(stack)-1])
	}
	return append(parts, s[start:]), nil
}

// rebase moves a SelectorError raised on a substring onto the full input.
func rebase(err error, input string, offset int) error {
	se, ok := err.(*SelectorError)
	if !ok {
		return err
	}
	pos := se.Pos
	if pos >= 0 {
		pos += offset
	}
	return &SelectorError{Input: input, Pos: pos, Msg: se.Msg}
}
