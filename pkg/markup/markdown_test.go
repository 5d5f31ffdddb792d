package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

func TestFromMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rawtext.Document
	}{
		{
			"plain paragraph",
			"Hello world",
			rawtext.Document{rawtext.TextRun{Text: "Hello world"}},
		},
		{
			"bold and italic",
			"**bold** and *it*",
			rawtext.Document{rawtext.TextRun{Text: "§lbold§r and §oit§r"}},
		},
		{
			"strikethrough",
			"~~gone~~",
			rawtext.Document{rawtext.TextRun{Text: "§mgone§r"}},
		},
		{
			"heading",
			"# Title",
			rawtext.Document{rawtext.TextRun{Text: "§lTitle§r"}},
		},
		{
			"code span verbatim",
			"`*x*`",
			rawtext.Document{rawtext.TextRun{Text: "*x*"}},
		},
		{
			"paragraphs",
			"a\n\nb",
			rawtext.Document{
				rawtext.TextRun{Text: "a"},
				rawtext.LineBreak{},
				rawtext.TextRun{Text: "b"},
			},
		},
		{
			"soft break",
			"a\nb",
			rawtext.Document{
				rawtext.TextRun{Text: "a"},
				rawtext.LineBreak{},
				rawtext.TextRun{Text: "b"},
			},
		},
		{
			"bullet list",
			"- x\n- y",
			rawtext.Document{
				rawtext.TextRun{Text: "- x"},
				rawtext.LineBreak{},
				rawtext.TextRun{Text: "- y"},
			},
		},
		{
			"ordered list",
			"1. x\n2. y",
			rawtext.Document{
				rawtext.TextRun{Text: "1. x"},
				rawtext.LineBreak{},
				rawtext.TextRun{Text: "2. y"},
			},
		},
		{
			"link keeps text",
			"[site](https://example.com)",
			rawtext.Document{rawtext.TextRun{Text: "site"}},
		},
		{
			"fenced code",
			"```\n**a**\nb\n```",
			rawtext.Document{
				rawtext.TextRun{Text: "**a**"},
				rawtext.LineBreak{},
				rawtext.TextRun{Text: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := FromMarkdown(tt.input, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Document)
		})
	}
}

func TestFromMarkdown_WithTags(t *testing.T) {
	res, err := FromMarkdown("Hello **[SELECTOR value=@p/]**, you have [SCORE name=@s objective=k/] coins", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	want := rawtext.Document{
		rawtext.TextRun{Text: "Hello §l"},
		rawtext.SelectorNode{Selector: "@p"},
		rawtext.TextRun{Text: "§r, you have "},
		rawtext.ScoreNode{Name: "@s", Objective: "k"},
		rawtext.TextRun{Text: " coins"},
	}
	assert.Equal(t, want, res.Document)
}

func TestFromMarkdown_BRTag(t *testing.T) {
	res, err := FromMarkdown("a[BR/]b", Options{})
	require.NoError(t, err)
	assert.Equal(t, rawtext.Document{
		rawtext.TextRun{Text: "a"},
		rawtext.LineBreak{},
		rawtext.TextRun{Text: "b"},
	}, res.Document)
}

func TestFromMarkdown_KeepsParseWarnings(t *testing.T) {
	res, err := FromMarkdown("x [FOO/]", Options{})
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
}

func TestFromMarkdown_InvalidDefaultMode(t *testing.T) {
	_, err := FromMarkdown("x", Options{DefaultMode: "fancy"})
	assert.Error(t, err)
}

func TestToMarkdown(t *testing.T) {
	md, err := ToMarkdown(rawtext.Document{
		rawtext.TextRun{Text: "Hello §lworld§r "},
		rawtext.SelectorNode{Selector: "@p"},
	})
	require.NoError(t, err)
	assert.Contains(t, md, "**world**")
	assert.Contains(t, md, "[SELECTOR value=@p/]")
}

func TestToMarkdown_Formatting(t *testing.T) {
	md, err := ToMarkdown(rawtext.Document{
		rawtext.TextRun{Text: "§oit§r and §mgone"},
	})
	require.NoError(t, err)
	assert.Contains(t, md, "*it*")
	assert.Contains(t, md, "gone")
	assert.NotContains(t, md, "§m")
}

func TestToMarkdown_Empty(t *testing.T) {
	md, err := ToMarkdown(nil)
	require.NoError(t, err)
	assert.Empty(t, md)
}

func TestToMarkdown_KeepsColorCodes(t *testing.T) {
	md, err := ToMarkdown(rawtext.Document{rawtext.TextRun{Text: "§ared"}})
	require.NoError(t, err)
	assert.Contains(t, md, "§ared")
}
