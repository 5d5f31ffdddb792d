// Package preview provides the preview command.
package preview

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

type previewOptions struct {
	*cmdutil.Options
}

// NewCmdPreview creates the preview command.
func NewCmdPreview() *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show how a RawText message reads in game",
		Long: `Render a RawText JSON message as display text.

Selectors are shown as [selector], scores as name的objective, translations
are substituted and conditionals read [IF condition THEN text].`,
		Example: `  # Preview a message
  rtx preview message.json

  # Preview an encoded file without saving it
  rtx encode message.txt | rtx preview`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runPreview(path, opts)
		},
	}

	return cmd
}

func runPreview(path string, opts *previewOptions) error {
	renderer, err := opts.Renderer(view.FormatPretty)
	if err != nil {
		return err
	}

	input, err := opts.ReadInput(path)
	if err != nil {
		return err
	}
	msg, err := rawtext.ParseMessage(input)
	if err != nil {
		return err
	}

	return renderer.RenderPreview(rawtext.PreviewSegments(msg.RawText))
}
