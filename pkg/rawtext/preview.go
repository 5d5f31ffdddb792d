package rawtext

import (
	"regexp"
	"strconv"
	"strings"
)

// placeholderPattern matches %%s, %%d, %%f and the single-digit indexed form %%N.
var placeholderPattern = regexp.MustCompile(`%%([0-9sdf])`)

// PreviewErrorText replaces a preview whose parameters could not be parsed.
const PreviewErrorText = "[Rawtext格式错误]"

// Substitute fills the placeholders of a translate key.
//
// %%s, %%d and %%f take the next parameter in order. %%N takes parameter N (1-based) and
// leaves the sequential cursor where it was. A placeholder with no matching parameter
// renders as "?". A nested translate parameter renders its key unsubstituted.
func Substitute(key string, params []Component) string {
	next := 0
	return placeholderPattern.ReplaceAllStringFunc(key, func(m string) string {
		var idx int
		switch verb := m[2:]; verb {
		case "s", "d", "f":
			idx = next
			next++
		default:
			n, _ := strconv.Atoi(verb)
			idx = n - 1
		}
		if idx < 0 || idx >= len(params) {
			return "?"
		}
		if params[idx].Kind == KindTranslate {
			return renderArg(params[idx])
		}
		return RenderPreview(params[idx : idx+1])
	})
}

// Preview renders key with parameters given in the authoring mode. Unparseable
// parameters yield PreviewErrorText.
func Preview(key string, mode Mode, raw string) string {
	params, err := Resolve(mode, raw)
	if err != nil {
		return PreviewErrorText
	}
	return Substitute(key, params)
}

// SegmentKind tags a run of preview output with the component kind it came from.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentSelector
	SegmentScore
	SegmentTranslate
	SegmentConditional
)

// Segment is one run of preview output.
type Segment struct {
	Kind SegmentKind
	Text string
}

// PreviewSegments renders components for display. Text is kept verbatim, scores read
// "name的objective", selectors "[selector]", translates are substituted and conditionals
// read "[IF cond THEN then]". Nested rawtext groups are flattened.
func PreviewSegments(comps []Component) []Segment {
	var out []Segment
	for _, c := range comps {
		switch c.Kind {
		case KindText:
			out = append(out, Segment{SegmentText, c.Text})
		case KindSelector:
			out = append(out, Segment{SegmentSelector, "[" + c.Selector + "]"})
		case KindScore:
			out = append(out, Segment{SegmentScore, c.Score.Name + "的" + c.Score.Objective})
		case KindTranslate:
			if cond, ok := DecodeConditional(c); ok {
				text := "[IF " + RenderPreview([]Component{cond.Condition}) +
					" THEN " + RenderPreview(cond.Then) + "]"
				out = append(out, Segment{SegmentConditional, text})
				continue
			}
			out = append(out, Segment{SegmentTranslate, Substitute(c.Translate, c.With.Params())})
		case KindRawText:
			out = append(out, PreviewSegments(c.Children)...)
		default:
			out = append(out, Segment{SegmentText, string(c.Raw)})
		}
	}
	return out
}

// RenderPreview is PreviewSegments joined into one string.
func RenderPreview(comps []Component) string {
	var b strings.Builder
	for _, s := range PreviewSegments(comps) {
		b.WriteString(s.Text)
	}
	return b.String()
}
