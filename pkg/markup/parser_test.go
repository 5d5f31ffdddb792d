package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

func TestParse_PlainText(t *testing.T) {
	res, err := Parse("Hello world")
	require.NoError(t, err)
	assert.Equal(t, rawtext.Document{rawtext.TextRun{Text: "Hello world"}}, res.Document)
	assert.Empty(t, res.Warnings)
}

func TestParse_EmptyInput(t *testing.T) {
	res, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, res.Document)
}

func TestParse_FeatureTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rawtext.Document
	}{
		{
			"selector",
			"Hello [SELECTOR value=@p/] world",
			rawtext.Document{
				rawtext.TextRun{Text: "Hello "},
				rawtext.SelectorNode{Selector: "@p"},
				rawtext.TextRun{Text: " world"},
			},
		},
		{
			"selector with params",
			`[SELECTOR value="@a[tag=red,scores={k=1..}]"/]`,
			rawtext.Document{rawtext.SelectorNode{Selector: "@a[tag=red,scores={k=1..}]"}},
		},
		{
			"empty selector",
			"[SELECTOR/]",
			rawtext.Document{rawtext.SelectorNode{}},
		},
		{
			"score",
			"[SCORE name=@s objective=kills/]",
			rawtext.Document{rawtext.ScoreNode{Name: "@s", Objective: "kills"}},
		},
		{
			"line break",
			"a[BR/]b",
			rawtext.Document{
				rawtext.TextRun{Text: "a"},
				rawtext.LineBreak{},
				rawtext.TextRun{Text: "b"},
			},
		},
		{
			"translate default mode",
			"[TRANSLATE key=item.name with=a,b/]",
			rawtext.Document{rawtext.TranslateNode{Key: "item.name", Mode: rawtext.ModeSimple, With: "a,b"}},
		},
		{
			"translate visual with style",
			`[TRANSLATE key=k mode=visual with="选择器:@p" style=array/]`,
			rawtext.Document{rawtext.TranslateNode{
				Key: "k", Mode: rawtext.ModeVisual, With: "选择器:@p", Style: rawtext.WithStyleArray,
			}},
		},
		{
			"inline conditional",
			`[IF condition='{"selector":"@p"}' then='[{"text":"yes"}]'/]`,
			rawtext.Document{rawtext.ConditionalNode{
				Condition: `{"selector":"@p"}`, Then: `[{"text":"yes"}]`,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Document)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestParse_ConditionalBody(t *testing.T) {
	res, err := Parse(`[IF condition='{"selector":"@p"}']hi[BR/][SCORE name=@s objective=k/][/IF]!`)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	want := rawtext.Document{
		rawtext.ConditionalNode{
			Condition: `{"selector":"@p"}`,
			Body: rawtext.Document{
				rawtext.TextRun{Text: "hi"},
				rawtext.LineBreak{},
				rawtext.ScoreNode{Name: "@s", Objective: "k"},
			},
		},
		rawtext.TextRun{Text: "!"},
	}
	assert.Equal(t, want, res.Document)
}

func TestParse_EmptyConditionalBody(t *testing.T) {
	res, err := Parse(`[IF condition='{"text":"x"}'][/IF]`)
	require.NoError(t, err)
	require.Len(t, res.Document, 1)

	node, ok := res.Document[0].(rawtext.ConditionalNode)
	require.True(t, ok)
	assert.NotNil(t, node.Body)
	assert.Empty(t, node.Body)
}

func TestParse_NestedConditional(t *testing.T) {
	res, err := Parse(`[IF condition='{"text":"a"}'][IF condition='{"text":"b"}']x[/IF][/IF]`)
	require.NoError(t, err)
	require.Len(t, res.Document, 1)

	outer := res.Document[0].(rawtext.ConditionalNode)
	require.Len(t, outer.Body, 1)
	inner, ok := outer.Body[0].(rawtext.ConditionalNode)
	require.True(t, ok)
	assert.Equal(t, `{"text":"b"}`, inner.Condition)
	assert.Equal(t, rawtext.Document{rawtext.TextRun{Text: "x"}}, inner.Body)
}

func TestParse_DegradesToText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantText string
	}{
		{"unknown tag", "a[FOO]b", "a[FOO]b"},
		{"invalid selector", `[SELECTOR value="@a[tag=x"/]`, `[SELECTOR value="@a[tag=x"/]`},
		{"translate without key", "[TRANSLATE with=a/]", "[TRANSLATE with=a/]"},
		{"translate bad mode", "[TRANSLATE key=k mode=weird/]", "[TRANSLATE key=k mode=weird/]"},
		{"translate bad style", "[TRANSLATE key=k style=weird/]", "[TRANSLATE key=k style=weird/]"},
		{"if without condition", "[IF/]", "[IF/]"},
		{"orphan close", "x[/IF]", "x[/IF]"},
		{"unclosed if", `[IF condition='{"text":"a"}']body`, `[IF condition='{"text":"a"}']body`},
		{"body if without condition", "[IF]x[/IF]", "[IF]x[/IF]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, rawtext.Document{rawtext.TextRun{Text: tt.wantText}}, res.Document)
			assert.NotEmpty(t, res.Warnings)
		})
	}
}

func TestParse_MismatchedCloseTag(t *testing.T) {
	res, err := Parse(`[IF condition='{"text":"a"}']x[/BR][/IF]`)
	require.NoError(t, err)
	require.Len(t, res.Document, 1)

	node := res.Document[0].(rawtext.ConditionalNode)
	assert.Equal(t, rawtext.Document{rawtext.TextRun{Text: "x[/BR]"}}, node.Body)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "mismatched close tag")
}

func TestParse_KeepsNodeOnInvalidValues(t *testing.T) {
	t.Run("advanced params", func(t *testing.T) {
		res, err := Parse("[TRANSLATE key=k mode=advanced with=[oops/]")
		require.NoError(t, err)
		assert.Equal(t, rawtext.Document{
			rawtext.TranslateNode{Key: "k", Mode: rawtext.ModeAdvanced, With: "[oops"},
		}, res.Document)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "key=k")
	})

	t.Run("conditional json", func(t *testing.T) {
		res, err := Parse("[IF condition=nope/]")
		require.NoError(t, err)
		assert.Equal(t, rawtext.Document{rawtext.ConditionalNode{Condition: "nope"}}, res.Document)
		assert.Len(t, res.Warnings, 1)
	})
}

func TestParse_UnknownParameterWarns(t *testing.T) {
	res, err := Parse("[SCORE name=@s objective=k color=red/]")
	require.NoError(t, err)
	assert.Equal(t, rawtext.Document{rawtext.ScoreNode{Name: "@s", Objective: "k"}}, res.Document)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], `"color"`)
}

func TestParse_BodyReplacesThen(t *testing.T) {
	res, err := Parse(`[IF condition='{"text":"a"}' then='[]']x[/IF]`)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "body replaces then")
}

func TestParseWithOptions_DefaultMode(t *testing.T) {
	res, err := ParseWithOptions("[TRANSLATE key=k with=文本:a/]", Options{DefaultMode: rawtext.ModeVisual})
	require.NoError(t, err)
	assert.Equal(t, rawtext.Document{
		rawtext.TranslateNode{Key: "k", Mode: rawtext.ModeVisual, With: "文本:a"},
	}, res.Document)

	res, err = ParseWithOptions("[TRANSLATE key=k mode=simple with=a/]", Options{DefaultMode: rawtext.ModeVisual})
	require.NoError(t, err)
	assert.Equal(t, rawtext.ModeSimple, res.Document[0].(rawtext.TranslateNode).Mode)
}

func TestParseWithOptions_InvalidDefaultMode(t *testing.T) {
	_, err := ParseWithOptions("x", Options{DefaultMode: "fancy"})
	assert.Error(t, err)
}

func TestParseWithOptions_LogsWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	res, err := ParseWithOptions("[FOO][/BAR]", Options{Logger: zap.New(core)})
	require.NoError(t, err)

	require.Len(t, res.Warnings, 2)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "unknown tag: FOO", logs.All()[0].Message)
	assert.Equal(t, "orphan close tag: [/BAR]", logs.All()[1].Message)
}
