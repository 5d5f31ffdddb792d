package rawtext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeConditional(t *testing.T) {
	c := EncodeConditional(NewSelector("@p[tag=vip]"), texts("VIP!"))
	assert.Equal(t,
		`{"translate":"%%2","with":[{"selector":"@p[tag=vip]"},{"rawtext":[{"text":"VIP!"}]}]}`,
		encode(t, c))

	empty := EncodeConditional(NewScore("@p", "x"), nil)
	assert.Equal(t,
		`{"translate":"%%2","with":[{"score":{"name":"@p","objective":"x"}},{"rawtext":[]}]}`,
		encode(t, empty))
}

func TestDecodeConditional_Idempotent(t *testing.T) {
	tests := []struct {
		name string
		cond Component
		then []Component
	}{
		{"selector", NewSelector("@p[tag=vip]"), texts("VIP!")},
		{"score", NewScore("@s", "rank"), []Component{NewText("rank "), NewScore("@s", "rank")}},
		{"nested conditional", NewSelector("@a"), []Component{EncodeConditional(NewSelector("@s"), texts("x"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeConditional(EncodeConditional(tt.cond, tt.then))
			require.True(t, ok)
			assert.Equal(t, tt.cond, got.Condition)
			assert.Equal(t, tt.then, got.Then)
		})
	}
}

func TestDecodeConditional_FromWire(t *testing.T) {
	var c Component
	require.NoError(t, json.Unmarshal(
		[]byte(`{"translate":"%%2","with":[{"selector":"@p[tag=vip]"},{"rawtext":[{"text":"VIP!"}]}]}`), &c))

	got, ok := DecodeConditional(c)
	require.True(t, ok)
	assert.Equal(t, NewSelector("@p[tag=vip]"), got.Condition)
	assert.Equal(t, texts("VIP!"), got.Then)
}

func TestDecodeConditional_NotConditional(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"other key", `{"translate":"%%1","with":[{"selector":"@p"},{"rawtext":[]}]}`},
		{"no with", `{"translate":"%%2"}`},
		{"string params", `{"translate":"%%2","with":["a","b"]}`},
		{"three params", `{"translate":"%%2","with":[{"text":"a"},{"rawtext":[]},{"text":"c"}]}`},
		{"second not rawtext", `{"translate":"%%2","with":[{"text":"a"},{"text":"b"}]}`},
		{"extra rawtext not array", `{"translate":"%%2","with":[{"text":"a"},{"text":"b","rawtext":"x"}]}`},
		{"rawtext wrapper", `{"translate":"%%2","with":{"rawtext":[{"text":"a"},{"rawtext":[]}]}}`},
		{"text", `{"text":"%%2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Component
			require.NoError(t, json.Unmarshal([]byte(tt.json), &c))
			_, ok := DecodeConditional(c)
			assert.False(t, ok)
		})
	}
}

func TestDecodeConditional_RawTextAlongsideOtherKeys(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"text", `{"translate":"%%2","with":[{"selector":"@p"},{"rawtext":[{"text":"hi"}],"text":""}]}`},
		{"selector", `{"translate":"%%2","with":[{"selector":"@p"},{"selector":"@s","rawtext":[{"text":"hi"}]}]}`},
		{"color", `{"translate":"%%2","with":[{"selector":"@p"},{"rawtext":[{"text":"hi"}],"color":"red"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Component
			require.NoError(t, json.Unmarshal([]byte(tt.json), &c))
			got, ok := DecodeConditional(c)
			require.True(t, ok)
			assert.Equal(t, NewSelector("@p"), got.Condition)
			assert.Equal(t, texts("hi"), got.Then)
		})
	}
}

// An ordinary translation that happens to use the same shape is read as a conditional.
func TestDecodeConditional_AmbiguousShapeIsConditional(t *testing.T) {
	var c Component
	require.NoError(t, json.Unmarshal(
		[]byte(`{"translate":"%%2","with":[{"text":"ignored"},{"rawtext":[{"text":"shown"}]}]}`), &c))
	got, ok := DecodeConditional(c)
	require.True(t, ok)
	assert.Equal(t, NewText("ignored"), got.Condition)
}

func TestParseConditional(t *testing.T) {
	c, err := ParseConditional(`{"selector":"@p"}`, `[{"text":"a"}]`)
	require.NoError(t, err)
	assert.Equal(t, NewSelector("@p"), c.Condition)
	assert.Equal(t, texts("a"), c.Then)

	c, err = ParseConditional(`{"score":{"name":"@p","objective":"o"}}`, `{"text":"one"}`)
	require.NoError(t, err)
	assert.Equal(t, texts("one"), c.Then)

	c, err = ParseConditional(`{"selector":"@p"}`, `{"rawtext":[{"text":"w"}]}`)
	require.NoError(t, err)
	assert.Equal(t, texts("w"), c.Then)

	c, err = ParseConditional(`{"selector":"@p"}`, "")
	require.NoError(t, err)
	assert.Empty(t, c.Then)

	c, err = ParseConditional("  ", `[]`)
	require.NoError(t, err)
	assert.Equal(t, KindRaw, c.Condition.Kind)
	assert.Equal(t, `{}`, encode(t, c.Condition))

	for _, bad := range [][2]string{
		{`{"selector":`, `[]`},
		{`{"selector":"@p"}`, `[{"text":}]`},
		{`{"selector":"@p"}`, `nope`},
	} {
		_, err := ParseConditional(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidConditional, bad)
	}
}
