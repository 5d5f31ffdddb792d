package rawtext

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Record is one brace-delimited key=value list, e.g. {item=apple,quantity=1..}.
type Record []Param

// Get returns the value for key.
func (r Record) Get(key string) (string, bool) {
	for _, p := range r {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ParseRecords parses a nested selector value: a single {k=v,...} record or a
// [{...},{...}] list of records. list reports which form was used.
func ParseRecords(value string) (records []Record, list bool, err error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, false, selectorErr(value, -1, "empty value")
	}
	// Balance is checked over the whole value before any slicing.
	if _, err := splitTopLevel(v, ','); err != nil {
		return nil, false, err
	}

	switch v[0] {
	case '{':
		if v[len(v)-1] != '}' {
			return nil, false, selectorErr(value, len(v)-1, "record must end with }")
		}
		rec, err := parseRecord(v)
		if err != nil {
			return nil, false, err
		}
		return []Record{rec}, false, nil

	case '[':
		if v[len(v)-1] != ']' {
			return nil, true, selectorErr(value, len(v)-1, "list must end with ]")
		}
		elems, err := splitTopLevel(v[1:len(v)-1], ',')
		if err != nil {
			return nil, true, err
		}
		for _, e := range elems {
			e = strings.TrimSpace(e)
			if e == "" {
				return nil, true, selectorErr(value, -1, "empty list entry")
			}
			if e[0] != '{' || e[len(e)-1] != '}' {
				return nil, true, selectorErr(value, -1, "list entry %q is not a {...} record", e)
			}
			rec, err := parseRecord(e)
			if err != nil {
				return nil, true, err
			}
			records = append(records, rec)
		}
		return records, true, nil
	}

	return nil, false, selectorErr(value, 0, "expected { or [")
}

// parseRecord parses "{k=v,...}" including the braces.
func parseRecord(s string) (Record, error) {
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, selectorErr(s, -1, "empty record")
	}
	pairs, err := splitTopLevel(inner, ',')
	if err != nil {
		return nil, err
	}
	rec := make(Record, 0, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		eq := strings.IndexByte(pair, '=')
		if eq <= 0 {
			return nil, selectorErr(s, -1, "malformed entry %q, want key=value", pair)
		}
		val := strings.TrimSpace(pair[eq+1:])
		if strings.ContainsAny(val, "{}[]") {
			return nil, selectorErr(s, -1, "value of %q must be a scalar", strings.TrimSpace(pair[:eq]))
		}
		rec = append(rec, Param{Key: strings.TrimSpace(pair[:eq]), Value: val})
	}
	return rec, nil
}

// FormatRecords is the inverse of ParseRecords.
func FormatRecords(records []Record, list bool) string {
	var b strings.Builder
	if list {
		b.WriteByte('[')
	}
	for i, rec := range records {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		for j, p := range rec {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Key)
			b.WriteByte('=')
			b.WriteString(p.Value)
		}
		b.WriteByte('}')
	}
	if list {
		b.WriteByte(']')
	}
	return b.String()
}

// HasItem is one hasitem condition.
type HasItem struct {
	Item     string `json:"item" validate:"required"`
	Data     string `json:"data,omitempty"`
	Quantity string `json:"quantity,omitempty" validate:"omitempty,selectorrange"`
	Location string `json:"location,omitempty"`
	Slot     string `json:"slot,omitempty" validate:"omitempty,selectorrange"`
}

// rangePattern matches selector scalars like 3, !3, 1.., ..5, 1..5 and -2..-1.
var rangePattern = regexp.MustCompile(`^!?(-?\d+(\.\.(-?\d+)?)?|\.\.-?\d+)$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("selectorrange", func(fl validator.FieldLevel) bool {
		return rangePattern.MatchString(fl.Field().String())
	})
	return v
}

// ParseHasItem parses a hasitem value. Every record must name an item; keys other than
// item, data, quantity, location and slot are rejected.
func ParseHasItem(value string) ([]HasItem, error) {
	records, _, err := ParseRecords(value)
	if err != nil {
		return nil, err
	}
	items := make([]HasItem, 0, len(records))
	for _, rec := range records {
		var h HasItem
		for _, p := range rec {
			switch p.Key {
			case "item":
				h.Item = p.Value
			case "data":
				h.Data = p.Value
			case "quantity":
				h.Quantity = p.Value
			case "location":
				h.Location = p.Value
			case "slot":
				h.Slot = p.Value
			default:
				return nil, selectorErr(value, -1, "unknown hasitem key %q", p.Key)
			}
		}
		if err := validate.Struct(h); err != nil {
			return nil, hasItemErr(value, err)
		}
		items = append(items, h)
	}
	return items, nil
}

func hasItemErr(value string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return selectorErr(value, -1, "%v", err)
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if fe.Tag() == "required" {
		return selectorErr(value, -1, "hasitem entry is missing required key %s", field)
	}
	return selectorErr(value, -1, "hasitem %s %q is not a valid range", field, fe.Value())
}

// FormatHasItem formats items as a single record, or as a list when there are several.
func FormatHasItem(items []HasItem) string {
	records := make([]Record, 0, len(items))
	for _, h := range items {
		rec := Record{{Key: "item", Value: h.Item}}
		for _, p := range []Param{
			{"data", h.Data}, {"quantity", h.Quantity}, {"location", h.Location}, {"slot", h.Slot},
		} {
			if p.Value != "" {
				rec = append(rec, p)
			}
		}
		records = append(records, rec)
	}
	return FormatRecords(records, len(records) > 1)
}

// ScoreCondition is one objective=range entry of a scores value.
type ScoreCondition struct {
	Objective string `json:"objective"`
	Range     string `json:"range"`
}

// ParseScores parses a scores value. List-form records are flattened in order.
func ParseScores(value string) ([]ScoreCondition, error) {
	records, _, err := ParseRecords(value)
	if err != nil {
		return nil, err
	}
	var out []ScoreCondition
	for _, rec := range records {
		for _, p := range rec {
			if p.Value == "" {
				return nil, selectorErr(value, -1, "objective %q has no range", p.Key)
			}
			if !rangePattern.MatchString(p.Value) {
				return nil, selectorErr(value, -1, "objective %q: %q is not a valid range", p.Key, p.Value)
			}
			out = append(out, ScoreCondition{Objective: p.Key, Range: p.Value})
		}
	}
	return out, nil
}

// FormatScores formats conditions as a single record.
func FormatScores(conds []ScoreCondition) string {
	rec := make(Record, 0, len(conds))
	for _, c := range conds {
		rec = append(rec, Param{Key: c.Objective, Value: c.Range})
	}
	return FormatRecords([]Record{rec}, false)
}

// Tag is one entry of a tag list. Names are opaque.
type Tag struct {
	Name    string `json:"name"`
	Negated bool   `json:"negated,omitempty"`
}

func (t Tag) String() string {
	if t.Negated {
		return "!" + t.Name
	}
	return t.Name
}

// ParseTags splits a comma list such as "a,!b,c". Empty entries are skipped.
func ParseTags(value string) []Tag {
	var out []Tag
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "!") {
			out = append(out, Tag{Name: strings.TrimSpace(part[1:]), Negated: true})
			continue
		}
		out = append(out, Tag{Name: part})
	}
	return out
}

// FormatTags joins tags back into a comma list.
func FormatTags(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}
