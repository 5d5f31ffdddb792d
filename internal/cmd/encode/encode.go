// Package encode provides the encode command.
package encode

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/pkg/markup"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

type encodeOptions struct {
	*cmdutil.Options
	markdown bool
	mode     string
	style    string
	indent   int
	strict   bool
}

// NewCmdEncode creates the encode command.
func NewCmdEncode() *cobra.Command {
	opts := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Convert markup to a RawText message",
		Long: `Convert markup text to a RawText JSON message.

Plain text is kept as text. Feature tags become message components:
  [BR/]                                      line break
  [SELECTOR value=@p/]                       selector
  [SCORE name=@p objective=money/]           score
  [TRANSLATE key="%%s" mode=simple with=A/]  translate
  [IF condition='{"selector":"@p"}']...[/IF] conditional

Input is read from the file argument or stdin.`,
		Example: `  # Encode a file
  rtx encode message.txt

  # Encode from stdin
  echo 'Hello [SELECTOR value=@p/]' | rtx encode

  # Encode markdown with bare parameter arrays
  rtx encode --markdown --style array notes.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			if !cmd.Flags().Changed("indent") {
				opts.indent = -1
			}
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runEncode(path, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Treat input as markdown")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Parameter mode of [TRANSLATE] tags without mode= (default from config)")
	cmd.Flags().StringVar(&opts.style, "style", "", "Wire shape of translate parameters: rawtext, array, strings (default from config)")
	cmd.Flags().IntVar(&opts.indent, "indent", 0, "JSON indent, 0 for compact (default from config)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when any tag or component had to be recovered")

	return cmd
}

func runEncode(path string, opts *encodeOptions) error {
	defer opts.Sync()

	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	log, err := opts.Log()
	if err != nil {
		return err
	}

	mode, err := cfg.Mode()
	if opts.mode != "" {
		mode, err = rawtext.ParseMode(opts.mode)
	}
	if err != nil {
		return err
	}
	style, err := cfg.Style()
	if opts.style != "" {
		style, err = rawtext.ParseWithStyle(opts.style)
	}
	if err != nil {
		return err
	}
	indent := cfg.Indent
	if opts.indent >= 0 {
		indent = opts.indent
	}

	input, err := opts.ReadInput(path)
	if err != nil {
		return err
	}

	parseOpts := markup.Options{DefaultMode: mode, Logger: log}
	var parsed *markup.Result
	if opts.markdown {
		parsed, err = markup.FromMarkdown(string(input), parseOpts)
	} else {
		parsed, err = markup.ParseWithOptions(string(input), parseOpts)
	}
	if err != nil {
		return err
	}

	result, err := rawtext.Serialize(parsed.Document, rawtext.WithLogger(log), rawtext.WithParamStyle(style))
	if errors.Is(err, rawtext.ErrEmptyMessage) {
		return fmt.Errorf("no content: %w", err)
	}
	if err != nil {
		return err
	}

	if opts.strict {
		if n := len(parsed.Warnings) + len(result.Warnings); n > 0 {
			return fmt.Errorf("%d warning(s) with --strict", n)
		}
	}

	renderer, err := opts.Renderer(view.FormatJSON)
	if err != nil {
		return err
	}
	if renderer.Format() == view.FormatPlain {
		indent = 0
	}
	data, err := result.Message.Encode(indent)
	if err != nil {
		return err
	}
	renderer.RenderRaw(data)
	return nil
}
