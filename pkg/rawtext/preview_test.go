package rawtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(values ...string) []Component {
	out := make([]Component, len(values))
	for i, v := range values {
		out[i] = NewText(v)
	}
	return out
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		params []Component
		want   string
	}{
		{"sequential and indexed", "%%s和%%2", texts("A", "B"), "A和B"},
		{"indexed does not move cursor", "%%2 %%s %%s", texts("A", "B"), "B A B"},
		{"d and f are sequential", "%%d/%%f", texts("1", "2"), "1/2"},
		{"out of range", "%%s %%s %%3", texts("A"), "A ? ?"},
		{"zero index", "%%0", texts("A"), "?"},
		{"no params", "hello %%s", nil, "hello ?"},
		{"no placeholders", "plain", texts("A"), "plain"},
		{"score", "%%1", []Component{NewScore("Steve", "money")}, "Steve的money"},
		{"selector", "hi %%s", []Component{NewSelector("@p[tag=a]")}, "hi [@p[tag=a]]"},
		{"nested translate renders key", "%%s", []Component{NewTranslate("item.apple", nil)}, "item.apple"},
		{"nested translate placeholders kept", "%%s",
			[]Component{NewTranslate("a.%%s", &With{Shape: WithStrings, Strings: []string{"x"}})}, "a.%%s"},
		{"nested conditional renders key", "%%1",
			[]Component{EncodeConditional(NewSelector("@p"), texts("x"))}, "%%2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substitute(tt.key, tt.params))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "A和B", Preview("%%s和%%2", ModeSimple, "A,B"))
	assert.Equal(t, "[@a]有Steve的money", Preview("%%1有%%2", ModeVisual, "选择器:@a,计分板:Steve|money"))
	assert.Equal(t, "x!", Preview("%%s!", ModeAdvanced, `{"rawtext":[{"text":"x"}]}`))
	assert.Equal(t, PreviewErrorText, Preview("%%s", ModeAdvanced, `[{`))
}

func TestRenderPreview(t *testing.T) {
	comps := []Component{
		NewText("Hi "),
		NewSelector("@p"),
		NewText(", you have "),
		NewScore("@p", "coins"),
		NewText("\n"),
		NewTranslate("%%s!", NewWith(WithStyleRawText, texts("wow"))),
		EncodeConditional(NewSelector("@p[tag=vip]"), texts("VIP")),
		NewRawText(texts(" end")),
	}
	assert.Equal(t, "Hi [@p], you have @p的coins\nwow![IF [@p[tag=vip]] THEN VIP] end", RenderPreview(comps))

	segs := PreviewSegments(comps)
	kinds := make([]SegmentKind, len(segs))
	for i, s := range segs {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []SegmentKind{
		SegmentText, SegmentSelector, SegmentText, SegmentScore, SegmentText,
		SegmentTranslate, SegmentConditional, SegmentText,
	}, kinds)
}
