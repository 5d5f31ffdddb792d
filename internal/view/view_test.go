package view

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"empty (default)", "", false},
		{"pretty", "pretty", false},
		{"json", "json", false},
		{"plain", "plain", false},
		{"invalid", "invalid", true},
		{"table", "table", true},
		{"JSON uppercase", "JSON", true}, // case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid output format")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidFormats(t *testing.T) {
	formats := ValidFormats()
	assert.Contains(t, formats, "pretty")
	assert.Contains(t, formats, "json")
	assert.Contains(t, formats, "plain")
	assert.Len(t, formats, 3)
}

func TestNewRenderer_DefaultFormat(t *testing.T) {
	r := NewRenderer("", true)
	assert.Equal(t, FormatPretty, r.Format())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncate with ellipsis", "hello world", 8, "hello..."},
		{"very short max", "hello", 3, "hel"},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestRenderer_RenderTable_Pretty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatPretty, true)
	r.SetWriter(&buf)

	r.RenderTable([]string{"KEY", "VALUE"}, [][]string{
		{"tag", "vip"},
		{"hasitem", "{item=apple}"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "KEY      VALUE", lines[0])
	assert.Equal(t, "tag      vip", lines[1])
	assert.Equal(t, "hasitem  {item=apple}", lines[2])
}

func TestRenderer_RenderTable_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	r.RenderTable([]string{"KEY", "VALUE"}, [][]string{{"tag", "vip"}, {"r", "5"}})

	var result []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Len(t, result, 2)
	assert.Equal(t, "tag", result[0]["key"])
	assert.Equal(t, "vip", result[0]["value"])
}

func TestRenderer_RenderTable_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	r.RenderTable([]string{"KEY"}, nil)
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestRenderer_RenderTable_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatPlain, true)
	r.SetWriter(&buf)

	r.RenderTable([]string{"KEY", "VALUE"}, [][]string{{"tag", "vip"}, {"r", "5"}})

	// Plain format should use tabs and not include headers
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "tag\tvip", lines[0])
	assert.Equal(t, "r\t5", lines[1])
}

func TestRenderer_RenderJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderJSON(map[string]string{"status": "ok"}))

	var result map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "ok", result["status"])
}

func TestRenderer_RenderKeyValue(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatPretty, "base: @a\n"},
		{FormatPlain, "base\t@a\n"},
		{FormatJSON, `{"base":"@a"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRenderer(tt.format, true)
			r.SetWriter(&buf)

			r.RenderKeyValue("base", "@a")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

var previewFixture = []rawtext.Segment{
	{Kind: rawtext.SegmentText, Text: "Hi "},
	{Kind: rawtext.SegmentSelector, Text: "[@p]"},
	{Kind: rawtext.SegmentText, Text: ", "},
	{Kind: rawtext.SegmentScore, Text: "@p的money"},
}

func TestRenderer_RenderPreview_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatPlain, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderPreview(previewFixture))
	assert.Equal(t, "Hi [@p], @p的money\n", buf.String())
}

func TestRenderer_RenderPreview_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderPreview(previewFixture))

	var result previewJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "Hi [@p], @p的money", result.Text)
	require.Len(t, result.Segments, 4)
	assert.Equal(t, "selector", result.Segments[1].Kind)
	assert.Equal(t, "score", result.Segments[3].Kind)
}

func TestRenderer_RenderPreview_PrettyNoColor(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatPretty, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderPreview(previewFixture))
	assert.Equal(t, "Hi [@p], @p的money\n", buf.String())
}

func TestRenderer_RenderPreview_PrettyColor(t *testing.T) {
	if os.Getenv("NO_COLOR") != "" {
		t.Skip("NO_COLOR is set")
	}
	saved := color.NoColor
	defer func() { color.NoColor = saved }()
	color.NoColor = false

	var buf bytes.Buffer
	r := NewRenderer(FormatPretty, false)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderPreview(previewFixture))
	assert.Contains(t, buf.String(), "\x1b[32m[@p]")
	assert.Contains(t, buf.String(), "\x1b[31m@p的money")
}

func TestSegmentKindName(t *testing.T) {
	assert.Equal(t, "text", SegmentKindName(rawtext.SegmentText))
	assert.Equal(t, "translate", SegmentKindName(rawtext.SegmentTranslate))
	assert.Equal(t, "conditional", SegmentKindName(rawtext.SegmentConditional))
}

func TestRenderer_Messages(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatPretty, true)
	r.SetWriter(&buf)

	r.Success("Saved")
	r.Warning("Careful")
	r.Error("Failed")

	output := buf.String()
	assert.Contains(t, output, "✓ Saved")
	assert.Contains(t, output, "! Careful")
	assert.Contains(t, output, "✗ Failed")
}
