// render.go renders a rawtext.Document back to bracket syntax.
package markup

import (
	"strings"

	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

// Render converts a document to markup. Parsing the output yields an equivalent document.
// Line breaks are written as newlines. Conditionals are written in body form when their
// then-branch survives the trip through a document unchanged.
func Render(doc rawtext.Document) string {
	var sb strings.Builder
	for _, n := range doc {
		renderNode(&sb, n)
	}
	return sb.String()
}

// RenderNode renders a single node.
func RenderNode(n rawtext.Node) string {
	var sb strings.Builder
	renderNode(&sb, n)
	return sb.String()
}

func renderNode(sb *strings.Builder, n rawtext.Node) {
	switch n := n.(type) {
	case rawtext.TextRun:
		sb.WriteString(EscapeText(n.Text))
	case rawtext.LineBreak:
		sb.WriteString("\n")
	case rawtext.SelectorNode:
		writeTag(sb, "SELECTOR", true, "value", n.Selector)
	case rawtext.ScoreNode:
		writeTag(sb, "SCORE", true, "name", n.Name, "objective", n.Objective)
	case rawtext.TranslateNode:
		mode := n.Mode
		if mode == "" {
			mode = rawtext.ModeSimple
		}
		kv := []string{"key", n.Key, "mode", string(mode)}
		if n.With != "" {
			kv = append(kv, "with", n.With)
		}
		if n.Style != "" {
			kv = append(kv, "style", string(n.Style))
		}
		writeTag(sb, "TRANSLATE", true, kv...)
	case rawtext.ConditionalNode:
		body := conditionalBody(n)
		if body == nil {
			writeTag(sb, "IF", true, "condition", n.Condition, "then", n.Then)
			return
		}
		writeTag(sb, "IF", false, "condition", n.Condition)
		sb.WriteString(Render(body))
		sb.WriteString("[/IF]")
	}
}

// conditionalBody returns the then-branch as a document, or nil when it cannot be
// written as a body without changing the serialized branch.
func conditionalBody(n rawtext.ConditionalNode) rawtext.Document {
	if n.Body != nil {
		return n.Body
	}
	c, err := rawtext.ParseConditional(n.Condition, n.Then)
	if err != nil {
		return nil
	}
	body := rawtext.Deserialize(c.Then)
	if len(c.Then) == 0 {
		return body
	}
	res, err := rawtext.Serialize(body)
	if err != nil || len(res.Warnings) > 0 {
		return nil
	}
	want, err := rawtext.Message{RawText: c.Then}.Encode(0)
	if err != nil {
		return nil
	}
	got, err := res.Message.Encode(0)
	if err != nil || string(got) != string(want) {
		return nil
	}
	return body
}

// writeTag writes [NAME k=v ...] or [NAME k=v .../]. Empty values are skipped.
func writeTag(sb *strings.Builder, name string, selfClose bool, kv ...string) {
	sb.WriteString("[")
	sb.WriteString(name)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(kv[i])
		sb.WriteString("=")
		sb.WriteString(quoteValue(kv[i+1]))
	}
	if selfClose {
		sb.WriteString("/")
	}
	sb.WriteString("]")
}

// quoteValue returns v unquoted when the tokenizer would read it back unchanged,
// otherwise quoted with whichever quote needs less escaping.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\r\n]\"'\\") && !strings.Contains(v, "/") {
		return v
	}
	q := "\""
	if strings.Contains(v, "\"") && !strings.Contains(v, "'") {
		q = "'"
	}
	escaped := strings.NewReplacer(`\`, `\\`, q, `\`+q).Replace(v)
	return q + escaped + q
}

// EscapeText escapes every '[' that would otherwise start a tag or follow a backslash.
func EscapeText(s string) string {
	if !strings.Contains(s, "[") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '[' {
			_, _, err := parseTag(s, i)
			if err == nil || (i > 0 && s[i-1] == '\\') {
				sb.WriteString(`\`)
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
