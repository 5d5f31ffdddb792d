package rawtext

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConditionalKey is the translate key of the conditional idiom. The second argument of
// "%%2" is only shown when the first one resolves, which gives an if/then.
const ConditionalKey = "%%2"

// Conditional is a decoded if/then block.
type Conditional struct {
	Condition Component
	Then      []Component
}

// EncodeConditional builds {"translate":"%%2","with":[cond,{"rawtext":then}]}.
func EncodeConditional(cond Component, then []Component) Component {
	if then == nil {
		then = []Component{}
	}
	return NewTranslate(ConditionalKey, &With{
		Shape:      WithComponents,
		Components: []Component{cond, NewRawText(then)},
	})
}

// DecodeConditional recognizes the conditional idiom. Any translate of "%%2" whose with
// is an array of exactly two entries, the second holding a rawtext array, matches. The
// second entry may carry other keys; a rawtext array next to "text" or "selector" still counts.
// An ordinary translation built the same way is indistinguishable and is decoded as a
// conditional too.
func DecodeConditional(c Component) (*Conditional, bool) {
	if c.Kind != KindTranslate || c.Translate != ConditionalKey || c.With == nil {
		return nil, false
	}
	if c.With.Shape != WithComponents || len(c.With.Components) != 2 {
		return nil, false
	}
	then, ok := rawTextChildren(c.With.Components[1])
	if !ok {
		return nil, false
	}
	return &Conditional{Condition: c.With.Components[0], Then: then}, true
}

// rawTextChildren returns the rawtext array of c, whether it decoded as a group or
// rode along as an extra key of another kind.
func rawTextChildren(c Component) ([]Component, bool) {
	if c.Kind == KindRawText {
		return c.Children, true
	}
	raw, ok := c.Extra["rawtext"]
	if !ok {
		return nil, false
	}
	children, err := decodeComponentArray(raw)
	if err != nil {
		return nil, false
	}
	return children, true
}

// ParseConditional reads the JSON facts of a conditional node: a single condition
// component and a then-branch array (a lone object counts as a one-element branch).
// An empty condition means {}.
func ParseConditional(condition, then string) (*Conditional, error) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		condition = "{}"
	}
	var cond Component
	if err := json.Unmarshal([]byte(condition), &cond); err != nil {
		return nil, fmt.Errorf("%w: condition: %v", ErrInvalidConditional, err)
	}

	then = strings.TrimSpace(then)
	var branch []Component
	switch {
	case then == "":
	case then[0] == '[':
		if err := json.Unmarshal([]byte(then), &branch); err != nil {
			return nil, fmt.Errorf("%w: then: %v", ErrInvalidConditional, err)
		}
	default:
		var one Component
		if err := json.Unmarshal([]byte(then), &one); err != nil {
			return nil, fmt.Errorf("%w: then: %v", ErrInvalidConditional, err)
		}
		if one.Kind == KindRawText {
			branch = one.Children
		} else {
			branch = []Component{one}
		}
	}
	return &Conditional{Condition: cond, Then: branch}, nil
}
