// parser.go parses bracket syntax into a rawtext.Document.
package markup

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

// Options configures parsing.
type Options struct {
	// DefaultMode is the parameter mode of [TRANSLATE] tags without mode=. Empty means simple.
	DefaultMode rawtext.Mode
	// Logger receives parse warnings. Nil discards them.
	Logger *zap.Logger
}

// Result is the parsed document plus any warnings generated while parsing.
type Result struct {
	Document rawtext.Document
	Warnings []string

	log *zap.Logger
}

// AddWarning logs a warning and stores it in the result.
func (r *Result) AddWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	r.log.Warn(msg)
}

// Parse parses markup with default options.
func Parse(input string) (*Result, error) {
	return ParseWithOptions(input, Options{})
}

// ParseWithOptions parses markup into a document.
//
// Text becomes text runs. Known tags become feature nodes or line breaks. Unknown tags,
// tags with invalid values, orphan or mismatched close tags and unclosed [IF] tags are
// kept as text and reported in Warnings.
func ParseWithOptions(input string, opts Options) (*Result, error) {
	mode, err := rawtext.ParseMode(string(opts.DefaultMode))
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	p := &parser{mode: mode, result: &Result{log: log}}
	p.run(Tokenize(input))
	return p.result, nil
}

type parser struct {
	mode   rawtext.Mode
	result *Result
	root   rawtext.Document
	stack  []*frame
}

// frame tracks an open [IF] tag while its body is collected.
type frame struct {
	token Token
	doc   rawtext.Document
}

func (p *parser) run(tokens []Token) {
	for _, token := range tokens {
		switch token.Type {
		case TokenText:
			p.emitText(token.Text)

		case TokenOpenTag, TokenSelfClose:
			tt, known := LookupTag(token.Name)
			if !known {
				p.result.AddWarning("unknown tag: %s", token.Name)
				p.emitText(token.Raw)
				continue
			}
			p.checkParams(tt, token)

			if tt.HasBody && token.Type == TokenOpenTag {
				p.stack = append(p.stack, &frame{token: token})
				continue
			}
			node, err := p.buildNode(tt, token)
			if err != nil {
				p.result.AddWarning("[%s]: %v", token.Name, err)
				p.emitText(token.Raw)
				continue
			}
			p.emit(node)

		case TokenCloseTag:
			if len(p.stack) == 0 {
				p.result.AddWarning("orphan close tag: [/%s]", token.Name)
				p.emitText(token.Raw)
				continue
			}
			current := p.stack[len(p.stack)-1]
			if current.token.Name != token.Name {
				p.result.AddWarning("mismatched close tag: expected [/%s], got [/%s]",
					current.token.Name, token.Name)
				p.emitText(token.Raw)
				continue
			}
			p.stack = p.stack[:len(p.stack)-1]
			node, err := p.buildBodyNode(current)
			if err != nil {
				p.result.AddWarning("[%s]: %v", current.token.Name, err)
				p.emitText(current.token.Raw)
				p.emitAll(current.doc)
				p.emitText(token.Raw)
				continue
			}
			p.emit(node)
		}
	}

	// Handle any unclosed tags
	for len(p.stack) > 0 {
		current := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		p.result.AddWarning("unclosed tag: [%s]", current.token.Name)
		p.emitText(current.token.Raw)
		p.emitAll(current.doc)
	}

	p.result.Document = p.root
}

func (p *parser) target() *rawtext.Document {
	if len(p.stack) > 0 {
		return &p.stack[len(p.stack)-1].doc
	}
	return &p.root
}

func (p *parser) emit(n rawtext.Node) {
	doc := p.target()
	if t, ok := n.(rawtext.TextRun); ok {
		if t.Text == "" {
			return
		}
		if last := len(*doc) - 1; last >= 0 {
			if prev, ok := (*doc)[last].(rawtext.TextRun); ok {
				(*doc)[last] = rawtext.TextRun{Text: prev.Text + t.Text}
				return
			}
		}
	}
	*doc = append(*doc, n)
}

func (p *parser) emitText(s string) {
	p.emit(rawtext.TextRun{Text: s})
}

func (p *parser) emitAll(doc rawtext.Document) {
	for _, n := range doc {
		p.emit(n)
	}
}

func (p *parser) checkParams(tt TagType, token Token) {
	keys := make([]string, 0, len(token.Params))
	for k := range token.Params {
		if !tt.accepts(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.result.AddWarning("unknown parameter %q for [%s]", k, token.Name)
	}
}

// buildNode turns a self-contained tag into a node.
func (p *parser) buildNode(tt TagType, token Token) (rawtext.Node, error) {
	params := token.Params
	switch tt.Name {
	case TagBR:
		return rawtext.LineBreak{}, nil

	case TagSelector:
		value := strings.TrimSpace(params["value"])
		if value != "" {
			if _, err := rawtext.ParseSelector(value); err != nil {
				return nil, err
			}
		}
		return rawtext.SelectorNode{Selector: value}, nil

	case TagScore:
		return rawtext.ScoreNode{Name: params["name"], Objective: params["objective"]}, nil

	case TagTranslate:
		key := params["key"]
		if strings.TrimSpace(key) == "" {
			return nil, errors.New("missing key")
		}
		mode := p.mode
		if m, ok := params["mode"]; ok {
			var err error
			if mode, err = rawtext.ParseMode(m); err != nil {
				return nil, err
			}
		}
		style, err := rawtext.ParseWithStyle(params["style"])
		if err != nil {
			return nil, err
		}
		if _, ok := params["style"]; !ok {
			style = ""
		}
		node := rawtext.TranslateNode{Key: key, Mode: mode, With: params["with"], Style: style}
		if _, err := node.Params(); err != nil {
			p.result.AddWarning("[%s key=%s]: %v", token.Name, key, err)
		}
		return node, nil

	case TagIf:
		cond, ok := params["condition"]
		if !ok || strings.TrimSpace(cond) == "" {
			return nil, errors.New("missing condition")
		}
		if _, err := rawtext.ParseConditional(cond, params["then"]); err != nil {
			p.result.AddWarning("[%s]: %v", token.Name, err)
		}
		return rawtext.ConditionalNode{Condition: cond, Then: params["then"]}, nil
	}
	return nil, fmt.Errorf("tag has no node form")
}

// buildBodyNode closes an [IF]...[/IF] frame.
func (p *parser) buildBodyNode(f *frame) (rawtext.Node, error) {
	cond, ok := f.token.Params["condition"]
	if !ok || strings.TrimSpace(cond) == "" {
		return nil, errors.New("missing condition")
	}
	if _, ok := f.token.Params["then"]; ok {
		p.result.AddWarning("[%s]: body replaces then parameter", f.token.Name)
	}
	if _, err := rawtext.ParseConditional(cond, ""); err != nil {
		p.result.AddWarning("[%s]: %v", f.token.Name, err)
	}
	body := f.doc
	if body == nil {
		body = rawtext.Document{}
	}
	return rawtext.ConditionalNode{Condition: cond, Body: body}, nil
}
