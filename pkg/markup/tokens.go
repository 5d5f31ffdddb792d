// tokens.go defines the token types of the bracket tag syntax.
package markup

// TokenType represents token types for bracket syntax [TAG]...[/TAG].
type TokenType int

const (
	TokenText      TokenType = iota // plain text between tags
	TokenOpenTag                    // [TAG] or [TAG params]
	TokenCloseTag                   // [/TAG]
	TokenSelfClose                  // [TAG/] or [TAG params/]
)

// Token is a single token of bracket syntax.
type Token struct {
	Type         TokenType
	Name         string            // uppercase, set for tags
	OriginalName string            // as written, set for tags
	Params       map[string]string // set for OpenTag and SelfClose
	Text         string            // set for Text tokens, escapes already resolved
	Position     int               // byte offset in the input
	Raw          string            // full original tag text, used when a tag degrades to text
}
