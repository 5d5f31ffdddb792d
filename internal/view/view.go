// Package view provides output formatting for rtx commands.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

// Format represents an output format.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatPlain  Format = "plain"
)

// ValidFormats returns the accepted output format names.
func ValidFormats() []string {
	return []string{string(FormatPretty), string(FormatJSON), string(FormatPlain)}
}

// ValidateFormat checks an output format name. Empty selects the command's default.
func ValidateFormat(format string) error {
	if format == "" {
		return nil
	}
	for _, f := range ValidFormats() {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q (valid: %s)", format, strings.Join(ValidFormats(), ", "))
}

// Renderer renders data in a specific format.
type Renderer struct {
	format  Format
	writer  io.Writer
	noColor bool
}

// NewRenderer creates a new renderer with the specified format.
func NewRenderer(format Format, noColor bool) *Renderer {
	if noColor {
		color.NoColor = true
	}
	if format == "" {
		format = FormatPretty
	}
	return &Renderer{
		format:  format,
		writer:  os.Stdout,
		noColor: noColor,
	}
}

// SetWriter sets the output writer.
func (r *Renderer) SetWriter(w io.Writer) {
	r.writer = w
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// RenderTable renders data as a table.
func (r *Renderer) RenderTable(headers []string, rows [][]string) {
	if r.format == FormatJSON {
		r.renderTableAsJSON(headers, rows)
		return
	}

	if r.format == FormatPlain {
		r.renderTableAsPlain(rows)
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) && len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}

	bold := color.New(color.Bold)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(r.writer, "  ")
		}
		bold.Fprint(r.writer, pad(h, widths[i], i == len(headers)-1))
	}
	fmt.Fprintln(r.writer)

	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(r.writer, "  ")
			}
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			fmt.Fprint(r.writer, pad(val, w, i == len(row)-1))
		}
		fmt.Fprintln(r.writer)
	}
}

func pad(s string, width int, last bool) string {
	if last || len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (r *Renderer) renderTableAsJSON(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		item := make(map[string]string)
		for i, header := range headers {
			if i < len(row) {
				item[strings.ToLower(header)] = row[i]
			}
		}
		result = append(result, item)
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(r.writer, string(data))
}

func (r *Renderer) renderTableAsPlain(rows [][]string) {
	for _, row := range rows {
		fmt.Fprintln(r.writer, strings.Join(row, "\t"))
	}
}

// RenderJSON renders an object as JSON.
func (r *Renderer) RenderJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.writer, string(data))
	return nil
}

// RenderRaw writes pre-encoded JSON or text followed by a newline.
func (r *Renderer) RenderRaw(data []byte) {
	fmt.Fprintln(r.writer, string(data))
}

// RenderText renders plain text.
func (r *Renderer) RenderText(text string) {
	fmt.Fprintln(r.writer, text)
}

// RenderKeyValue renders a key-value pair.
func (r *Renderer) RenderKeyValue(key, value string) {
	if r.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{key: value})
		fmt.Fprintln(r.writer, string(data))
		return
	}
	if r.format == FormatPlain {
		fmt.Fprintf(r.writer, "%s\t%s\n", key, value)
		return
	}
	bold := color.New(color.Bold)
	bold.Fprintf(r.writer, "%s: ", key)
	fmt.Fprintln(r.writer, value)
}

// previewColors colors preview runs by the component they came from.
var previewColors = map[rawtext.SegmentKind]*color.Color{
	rawtext.SegmentSelector:    color.New(color.FgGreen),
	rawtext.SegmentScore:       color.New(color.FgRed),
	rawtext.SegmentTranslate:   color.New(color.FgYellow),
	rawtext.SegmentConditional: color.New(color.FgMagenta),
}

// SegmentKindName returns the JSON name of a preview segment kind.
func SegmentKindName(k rawtext.SegmentKind) string {
	switch k {
	case rawtext.SegmentSelector:
		return "selector"
	case rawtext.SegmentScore:
		return "score"
	case rawtext.SegmentTranslate:
		return "translate"
	case rawtext.SegmentConditional:
		return "conditional"
	}
	return "text"
}

type previewSegment struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type previewJSON struct {
	Text     string           `json:"text"`
	Segments []previewSegment `json:"segments"`
}

// RenderPreview renders a message preview. Pretty output colors each run by kind,
// JSON output lists the runs and plain output is the text alone.
func (r *Renderer) RenderPreview(segments []rawtext.Segment) error {
	var text strings.Builder
	for _, s := range segments {
		text.WriteString(s.Text)
	}

	switch r.format {
	case FormatJSON:
		out := previewJSON{Text: text.String(), Segments: make([]previewSegment, 0, len(segments))}
		for _, s := range segments {
			out.Segments = append(out.Segments, previewSegment{Kind: SegmentKindName(s.Kind), Text: s.Text})
		}
		return r.RenderJSON(out)
	case FormatPlain:
		r.RenderText(text.String())
		return nil
	}

	for _, s := range segments {
		if c, ok := previewColors[s.Kind]; ok && !r.noColor {
			c.Fprint(r.writer, s.Text)
			continue
		}
		fmt.Fprint(r.writer, s.Text)
	}
	fmt.Fprintln(r.writer)
	return nil
}

// Warning prints a non-fatal problem.
func (r *Renderer) Warning(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintln(r.writer, "! "+msg)
}

// Success prints a success message.
func (r *Renderer) Success(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintln(r.writer, "✓ "+msg)
}

// Error prints an error message.
func (r *Renderer) Error(msg string) {
	red := color.New(color.FgRed)
	red.Fprintln(r.writer, "✗ "+msg)
}

// Truncate truncates a string to the specified length.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
