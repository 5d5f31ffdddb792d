// registry.go defines the bracket tags the parser understands.
package markup

import "strings"

// Tag names.
const (
	TagBR        = "br"
	TagSelector  = "selector"
	TagScore     = "score"
	TagTranslate = "translate"
	TagIf        = "if"
)

// TagType defines the behavior of a tag.
type TagType struct {
	Name    string   // canonical lowercase name
	HasBody bool     // true when [TAG]...[/TAG] is accepted
	Params  []string // accepted parameters, in render order
}

// TagRegistry maps tag names to their definitions.
// Adding a new tag = adding one entry here and a case in buildNode.
var TagRegistry = map[string]TagType{
	TagBR: {
		Name: TagBR,
	},
	TagSelector: {
		Name:   TagSelector,
		Params: []string{"value"},
	},
	TagScore: {
		Name:   TagScore,
		Params: []string{"name", "objective"},
	},
	TagTranslate: {
		Name:   TagTranslate,
		Params: []string{"key", "mode", "with", "style"},
	},
	TagIf: {
		Name:    TagIf,
		HasBody: true,
		Params:  []string{"condition", "then"},
	},
}

// LookupTag returns the TagType for a name, normalizing to lowercase.
// Returns ok=false if the tag is not registered.
func LookupTag(name string) (TagType, bool) {
	tt, ok := TagRegistry[strings.ToLower(name)]
	return tt, ok
}

// accepts reports whether key is a parameter of the tag.
func (tt TagType) accepts(key string) bool {
	for _, p := range tt.Params {
		if p == key {
			return true
		}
	}
	return false
}
