// markdown.go converts between markdown with bracket tags and rawtext documents.
package markup

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

// Formatting codes understood by the game client.
const (
	CodeBold          = "§l"
	CodeItalic        = "§o"
	CodeStrikethrough = "§m"
	CodeReset         = "§r"
)

// Placeholder format for nodes while markdown is processed.
// Format: RTXNODE0END, RTXNODE1END, etc. corresponding to the node index.
const (
	placeholderPrefix = "RTXNODE"
	placeholderSuffix = "END"
)

var placeholderPattern = regexp.MustCompile(placeholderPrefix + `(\d+)` + placeholderSuffix)

// mdParser is a goldmark parser configured for rawtext conversion.
var mdParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
	),
)

// FromMarkdown parses markdown that may contain bracket tags.
//
// Blocks are separated by line breaks, hard and soft breaks become line breaks,
// **strong** and *emphasis* become §l and §o runs closed by §r, and code is kept verbatim.
func FromMarkdown(input string, opts Options) (*Result, error) {
	res, err := ParseWithOptions(input, opts)
	if err != nil {
		return nil, err
	}

	// Replace nodes with placeholders so goldmark only sees text.
	var (
		source strings.Builder
		nodes  []rawtext.Node
	)
	for _, n := range res.Document {
		if t, ok := n.(rawtext.TextRun); ok {
			source.WriteString(t.Text)
			continue
		}
		fmt.Fprintf(&source, "%s%d%s", placeholderPrefix, len(nodes), placeholderSuffix)
		nodes = append(nodes, n)
	}

	src := []byte(source.String())
	root := mdParser.Parser().Parse(text.NewReader(src))

	c := &mdConverter{source: src, nodes: nodes}
	c.convertBlocks(root)
	c.flush()

	res.Document = c.doc
	return res, nil
}

// mdConverter holds state during AST conversion.
type mdConverter struct {
	source  []byte
	nodes   []rawtext.Node
	doc     rawtext.Document
	pending strings.Builder
}

func (c *mdConverter) convertBlocks(n ast.Node) {
	first := true
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if !first {
			c.lineBreak()
		}
		first = false
		c.convertBlock(child)
	}
}

func (c *mdConverter) convertBlock(n ast.Node) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		c.convertInlines(node)
	case *ast.Heading:
		c.pending.WriteString(CodeBold)
		c.convertInlines(node)
		c.pending.WriteString(CodeReset)
	case *ast.List:
		i := 0
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			if i > 0 {
				c.lineBreak()
			}
			if node.IsOrdered() {
				c.pending.WriteString(strconv.Itoa(node.Start+i) + ". ")
			} else {
				c.pending.WriteString("- ")
			}
			c.convertBlocks(item)
			i++
		}
	case *ast.Blockquote:
		c.convertBlocks(node)
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		c.writeLines(node.Lines())
	case *ast.ThematicBreak:
		c.pending.WriteString("----------")
	default:
		c.convertInlines(node)
	}
}

// writeLines writes block lines verbatim, one line break between lines.
func (c *mdConverter) writeLines(lines *text.Segments) {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(c.source))
	}
	for i, line := range strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n") {
		if i > 0 {
			c.lineBreak()
		}
		c.pending.WriteString(line)
	}
}

func (c *mdConverter) convertInlines(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.convertInline(child)
	}
}

func (c *mdConverter) convertInline(n ast.Node) {
	switch node := n.(type) {
	case *ast.Text:
		c.pending.Write(node.Segment.Value(c.source))
		if node.HardLineBreak() || node.SoftLineBreak() {
			c.lineBreak()
		}
	case *ast.String:
		c.pending.Write(node.Value)
	case *ast.Emphasis:
		code := CodeItalic
		if node.Level == 2 {
			code = CodeBold
		}
		c.pending.WriteString(code)
		c.convertInlines(node)
		c.pending.WriteString(CodeReset)
	case *extast.Strikethrough:
		c.pending.WriteString(CodeStrikethrough)
		c.convertInlines(node)
		c.pending.WriteString(CodeReset)
	case *ast.CodeSpan:
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				c.pending.Write(t.Segment.Value(c.source))
			}
		}
	case *ast.AutoLink:
		c.pending.Write(node.URL(c.source))
	case *ast.RawHTML:
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			c.pending.Write(seg.Value(c.source))
		}
	default:
		// Links and images keep their text.
		c.convertInlines(node)
	}
}

func (c *mdConverter) lineBreak() {
	c.flush()
	c.doc = append(c.doc, rawtext.LineBreak{})
}

// flush moves pending text into the document, substituting placeholders with their nodes.
func (c *mdConverter) flush() {
	s := c.pending.String()
	c.pending.Reset()
	if s == "" {
		return
	}
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(s, -1) {
		idx, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil || idx >= len(c.nodes) {
			continue
		}
		c.appendText(s[last:m[0]])
		c.doc = append(c.doc, c.nodes[idx])
		last = m[1]
	}
	c.appendText(s[last:])
}

func (c *mdConverter) appendText(s string) {
	if s == "" {
		return
	}
	if n := len(c.doc); n > 0 {
		if prev, ok := c.doc[n-1].(rawtext.TextRun); ok {
			c.doc[n-1] = rawtext.TextRun{Text: prev.Text + s}
			return
		}
	}
	c.doc = append(c.doc, rawtext.TextRun{Text: s})
}

// ToMarkdown renders a document as markdown with bracket tags.
//
// The document is rendered to an HTML fragment (formatting codes as inline elements,
// line breaks as <br>, feature nodes as placeholders), converted to markdown, and the
// placeholders are replaced with bracket tags.
func ToMarkdown(doc rawtext.Document) (string, error) {
	if len(doc) == 0 {
		return "", nil
	}

	var (
		sb    strings.Builder
		nodes []rawtext.Node
		open  []string
	)
	sb.WriteString("<p>")
	for _, n := range doc {
		switch n := n.(type) {
		case rawtext.TextRun:
			open = writeFormattedHTML(&sb, n.Text, open)
		case rawtext.LineBreak:
			sb.WriteString("<br>")
		default:
			fmt.Fprintf(&sb, "%s%d%s", placeholderPrefix, len(nodes), placeholderSuffix)
			nodes = append(nodes, n)
		}
	}
	closeTags(&sb, open)
	sb.WriteString("</p>")

	markdown, err := htmltomarkdown.ConvertString(sb.String())
	if err != nil {
		return "", err
	}

	markdown = placeholderPattern.ReplaceAllStringFunc(markdown, func(m string) string {
		idx, err := strconv.Atoi(m[len(placeholderPrefix) : len(m)-len(placeholderSuffix)])
		if err != nil || idx >= len(nodes) {
			return m
		}
		return RenderNode(nodes[idx])
	})

	return strings.TrimSpace(markdown), nil
}

var codeTags = map[string]string{
	CodeBold:          "strong",
	CodeItalic:        "em",
	CodeStrikethrough: "del",
}

// writeFormattedHTML escapes s into sb, turning formatting codes into inline elements.
// open is the stack of elements left open by earlier runs; the updated stack is returned.
func writeFormattedHTML(sb *strings.Builder, s string, open []string) []string {
	for len(s) > 0 {
		i := strings.Index(s, "§")
		if i < 0 {
			sb.WriteString(escapeHTML(s))
			break
		}
		sb.WriteString(escapeHTML(s[:i]))
		code := s[i:min(i+len("§")+1, len(s))]
		s = s[len(code):]
		if code == CodeReset {
			closeTags(sb, open)
			open = nil
			continue
		}
		if tag, ok := codeTags[code]; ok {
			sb.WriteString("<" + tag + ">")
			open = append(open, tag)
			continue
		}
		// Color and other codes are kept as text.
		sb.WriteString(escapeHTML(code))
	}
	return open
}

func closeTags(sb *strings.Builder, open []string) {
	for i := len(open) - 1; i >= 0; i-- {
		sb.WriteString("</" + open[i] + ">")
	}
}

func escapeHTML(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
