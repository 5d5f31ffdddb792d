// Package decode provides the decode command.
package decode

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/pkg/markup"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

type decodeOptions struct {
	*cmdutil.Options
	markdown bool
}

// decodeResult is the JSON form of a decoded message.
type decodeResult struct {
	Markup   string   `json:"markup"`
	Text     string   `json:"text"`
	Features []string `json:"features"`
}

// NewCmdDecode creates the decode command.
func NewCmdDecode() *cobra.Command {
	opts := &decodeOptions{}

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Convert a RawText message to markup",
		Long: `Convert a RawText JSON message back to editable markup.

The input must be an object with a "rawtext" array. Conditional blocks
("%%2" translations) are decoded into [IF] tags.`,
		Example: `  # Decode a message
  echo '{"rawtext":[{"text":"Hi "},{"selector":"@p"}]}' | rtx decode

  # Decode to markdown
  rtx decode --markdown message.json

  # Show text and feature summary as JSON
  rtx decode -o json message.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runDecode(path, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Write markdown instead of markup")

	return cmd
}

func runDecode(path string, opts *decodeOptions) error {
	defer opts.Sync()

	log, err := opts.Log()
	if err != nil {
		return err
	}
	renderer, err := opts.Renderer(view.FormatPretty)
	if err != nil {
		return err
	}

	input, err := opts.ReadInput(path)
	if err != nil {
		return err
	}
	doc, err := rawtext.DecodeMessage(input, rawtext.WithLogger(log))
	if err != nil {
		return err
	}

	text := markup.Render(doc)
	if opts.markdown {
		if text, err = markup.ToMarkdown(doc); err != nil {
			return err
		}
	}

	if renderer.Format() == view.FormatJSON {
		features := make([]string, 0)
		for _, f := range doc.Features() {
			features = append(features, string(f.Kind()))
		}
		return renderer.RenderJSON(decodeResult{Markup: text, Text: doc.PlainText(), Features: features})
	}

	renderer.RenderText(text)
	return nil
}
