package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_EmptyInput(t *testing.T) {
	assert.Empty(t, Tokenize(""))
}

func TestTokenize_PlainText(t *testing.T) {
	tokens := Tokenize("Hello world")
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenText, tokens[0].Type)
	assert.Equal(t, "Hello world", tokens[0].Text)
}

func TestTokenize_Tags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType TokenType
		wantName string
	}{
		{"open", "[IF]", TokenOpenTag, "IF"},
		{"close", "[/IF]", TokenCloseTag, "IF"},
		{"self close", "[BR/]", TokenSelfClose, "BR"},
		{"lowercase", "[br/]", TokenSelfClose, "BR"},
		{"mixed case", "[Selector/]", TokenSelfClose, "SELECTOR"},
		{"unknown name", "[FOO]", TokenOpenTag, "FOO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.wantType, tokens[0].Type)
			assert.Equal(t, tt.wantName, tokens[0].Name)
			assert.Equal(t, tt.input, tokens[0].Raw)
		})
	}
}

func TestTokenize_OriginalName(t *testing.T) {
	tokens := Tokenize("[br/]")
	require.Len(t, tokens, 1)
	assert.Equal(t, "br", tokens[0].OriginalName)
}

func TestTokenize_Parameters(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantParams map[string]string
	}{
		{
			"single param",
			"[SELECTOR value=@a/]",
			map[string]string{"value": "@a"},
		},
		{
			"multiple params",
			"[SCORE name=@s objective=kills/]",
			map[string]string{"name": "@s", "objective": "kills"},
		},
		{
			"double quoted value",
			`[TRANSLATE key="a b"/]`,
			map[string]string{"key": "a b"},
		},
		{
			"single quoted value",
			`[IF condition='{"text":"x"}']`,
			map[string]string{"condition": `{"text":"x"}`},
		},
		{
			"escaped quote",
			`[TRANSLATE key='it\'s'/]`,
			map[string]string{"key": "it's"},
		},
		{
			"escaped backslash",
			`[TRANSLATE key="a\\b"/]`,
			map[string]string{"key": `a\b`},
		},
		{
			"other escapes kept",
			`[TRANSLATE key="a\nb"/]`,
			map[string]string{"key": `a\nb`},
		},
		{
			"uppercase key lowered",
			"[SELECTOR VALUE=@p/]",
			map[string]string{"value": "@p"},
		},
		{
			"key without value",
			"[TRANSLATE flag/]",
			map[string]string{"flag": "true"},
		},
		{
			"unquoted value with slash",
			"[TRANSLATE key=a/b/]",
			map[string]string{"key": "a/b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.wantParams, tokens[0].Params)
		})
	}
}

func TestTokenize_Mixed(t *testing.T) {
	tokens := Tokenize("Hi [SELECTOR value=@p/], bye")
	require.Len(t, tokens, 3)

	assert.Equal(t, TokenText, tokens[0].Type)
	assert.Equal(t, "Hi ", tokens[0].Text)
	assert.Equal(t, 0, tokens[0].Position)

	assert.Equal(t, TokenSelfClose, tokens[1].Type)
	assert.Equal(t, 3, tokens[1].Position)

	assert.Equal(t, TokenText, tokens[2].Type)
	assert.Equal(t, ", bye", tokens[2].Text)
}

func TestTokenize_NotATag(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"lone bracket", "a [ b"},
		{"empty name", "[]"},
		{"bad char after name", "[BR!]"},
		{"unclosed tag", "[BR"},
		{"unclosed quote", `[TRANSLATE key="abc]`},
		{"slash without bracket", "[BR / x]"},
		{"unclosed close tag", "[/IF x]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, TokenText, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Text)
		})
	}
}

func TestTokenize_EscapedBracket(t *testing.T) {
	tokens := Tokenize(`\[BR/] and \[x`)
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenText, tokens[0].Type)
	assert.Equal(t, "[BR/] and [x", tokens[0].Text)
}

func TestTokenize_BackslashElsewhereKept(t *testing.T) {
	tokens := Tokenize(`a\b`)
	require.Len(t, tokens, 1)
	assert.Equal(t, `a\b`, tokens[0].Text)
}
