// tokenizer.go implements tokenization for [TAG]...[/TAG] bracket syntax.
package markup

import (
	"fmt"
	"strings"
	"unicode"
)

// Tokenize scans input for bracket tags and returns a token stream.
// Recognized forms:
//   - [TAG] or [TAG params] - open tag
//   - [/TAG] - close tag
//   - [TAG/] or [TAG params/] - self-closing
//
// A '[' that does not start a well-formed tag is text, and "\[" is always a literal '['.
// Unknown tag names are still tokenized; the parser decides what to do with them.
func Tokenize(input string) []Token {
	var (
		tokens    []Token
		text      strings.Builder
		textStart int
	)
	flush := func() {
		if text.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{Type: TokenText, Text: text.String(), Position: textStart})
		text.Reset()
	}
	writeText := func(pos int, s string) {
		if text.Len() == 0 {
			textStart = pos
		}
		text.WriteString(s)
	}

	for pos := 0; pos < len(input); {
		switch {
		case input[pos] == '\\' && pos+1 < len(input) && input[pos+1] == '[':
			writeText(pos, "[")
			pos += 2
		case input[pos] == '[':
			token, end, err := parseTag(input, pos)
			if err != nil {
				writeText(pos, "[")
				pos++
				continue
			}
			flush()
			tokens = append(tokens, token)
			pos = end
		default:
			writeText(pos, input[pos:pos+1])
			pos++
		}
	}
	flush()

	return tokens
}

// parseTag attempts to parse a tag starting at pos.
// Returns the token and the position after the tag.
func parseTag(input string, pos int) (Token, int, error) {
	if pos >= len(input) || input[pos] != '[' {
		return Token{}, pos, fmt.Errorf("expected '['")
	}
	start := pos
	pos++

	isClose := false
	if pos < len(input) && input[pos] == '/' {
		isClose = true
		pos++
	}

	nameStart := pos
	for pos < len(input) && isNameChar(rune(input[pos])) {
		pos++
	}
	if pos == nameStart {
		return Token{}, start, fmt.Errorf("empty tag name")
	}
	name := input[nameStart:pos]

	if isClose {
		if pos >= len(input) || input[pos] != ']' {
			return Token{}, start, fmt.Errorf("unclosed close tag")
		}
		pos++
		return Token{
			Type:         TokenCloseTag,
			Name:         strings.ToUpper(name),
			OriginalName: name,
			Raw:          input[start:pos],
			Position:     start,
		}, pos, nil
	}

	// A name must be followed by whitespace, '/' or ']'.
	if pos < len(input) && !unicode.IsSpace(rune(input[pos])) && input[pos] != '/' && input[pos] != ']' {
		return Token{}, start, fmt.Errorf("invalid character after tag name")
	}

	params, end, selfClose, err := parseParams(input, pos)
	if err != nil {
		return Token{}, start, err
	}

	typ := TokenOpenTag
	if selfClose {
		typ = TokenSelfClose
	}
	return Token{
		Type:         typ,
		Name:         strings.ToUpper(name),
		OriginalName: name,
		Params:       params,
		Raw:          input[start:end],
		Position:     start,
	}, end, nil
}

// parseParams parses key=value parameters up to "]" or "/]".
// Returns the parameters, the position after the tag and whether it was self-closing.
func parseParams(input string, pos int) (map[string]string, int, bool, error) {
	params := make(map[string]string)

	for pos < len(input) {
		for pos < len(input) && unicode.IsSpace(rune(input[pos])) {
			pos++
		}
		if pos >= len(input) {
			break
		}

		switch {
		case input[pos] == ']':
			return params, pos + 1, false, nil
		case input[pos] == '/':
			if pos+1 < len(input) && input[pos+1] == ']' {
				return params, pos + 2, true, nil
			}
			return nil, pos, false, fmt.Errorf("expected ']' after '/'")
		}

		keyStart := pos
		for pos < len(input) && isNameChar(rune(input[pos])) {
			pos++
		}
		if pos == keyStart {
			return nil, pos, false, fmt.Errorf("expected parameter key or ']'")
		}
		key := strings.ToLower(input[keyStart:pos])

		if pos >= len(input) || input[pos] != '=' {
			// Key without value - treat as boolean true
			params[key] = "true"
			continue
		}
		pos++

		value, next, err := parseValue(input, pos)
		if err != nil {
			return nil, pos, false, err
		}
		params[key] = value
		pos = next
	}

	return nil, pos, false, fmt.Errorf("unclosed bracket tag")
}

// parseValue parses a parameter value. Quoted values ('...' or "...") may contain
// backslash-escaped quotes and backslashes. Unquoted values end at whitespace, "]" or "/]".
func parseValue(input string, pos int) (string, int, error) {
	if pos >= len(input) {
		return "", pos, fmt.Errorf("unexpected end of input")
	}

	if q := input[pos]; q == '"' || q == '\'' {
		pos++
		var value strings.Builder
		for pos < len(input) {
			c := input[pos]
			if c == q {
				return value.String(), pos + 1, nil
			}
			if c == '\\' && pos+1 < len(input) && (input[pos+1] == q || input[pos+1] == '\\') {
				value.WriteByte(input[pos+1])
				pos += 2
				continue
			}
			value.WriteByte(c)
			pos++
		}
		return "", pos, fmt.Errorf("unclosed quoted value")
	}

	start := pos
	for pos < len(input) {
		c := input[pos]
		if unicode.IsSpace(rune(c)) || c == ']' || (c == '/' && pos+1 < len(input) && input[pos+1] == ']') {
			break
		}
		pos++
	}
	return input[start:pos], pos, nil
}

func isNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}
