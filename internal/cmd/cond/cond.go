// Package cond provides the cond command.
package cond

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/pkg/markup"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

type condOptions struct {
	*cmdutil.Options
	condition string
	then      string
	body      string
}

// NewCmdCond creates the cond command.
func NewCmdCond() *cobra.Command {
	opts := &condOptions{}

	cmd := &cobra.Command{
		Use:   "cond",
		Short: "Build a conditional component",
		Long: `Build the "%%2" conditional component.

The then-branch is shown only when the condition component resolves. Give the
branch as a JSON array with --then or as markup with --body.`,
		Example: `  # Show VIP to players tagged vip
  rtx cond --condition '{"selector":"@p[tag=vip]"}' --then '[{"text":"VIP"}]'

  # Branch written as markup
  rtx cond --condition '{"selector":"@p[tag=vip]"}' --body 'VIP [SCORE name=@p objective=money/]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			return runCond(opts)
		},
	}

	cmd.Flags().StringVar(&opts.condition, "condition", "", "Condition component as JSON (required)")
	cmd.Flags().StringVar(&opts.then, "then", "", "Then-branch as a JSON array")
	cmd.Flags().StringVar(&opts.body, "body", "", "Then-branch as markup")
	cmd.MarkFlagsMutuallyExclusive("then", "body")
	_ = cmd.MarkFlagRequired("condition")

	return cmd
}

func runCond(opts *condOptions) error {
	defer opts.Sync()

	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	log, err := opts.Log()
	if err != nil {
		return err
	}
	renderer, err := opts.Renderer(view.FormatJSON)
	if err != nil {
		return err
	}

	c, err := rawtext.ParseConditional(opts.condition, opts.then)
	if err != nil {
		return err
	}

	if opts.body != "" {
		mode, err := cfg.Mode()
		if err != nil {
			return err
		}
		style, err := cfg.Style()
		if err != nil {
			return err
		}
		parsed, err := markup.ParseWithOptions(opts.body, markup.Options{DefaultMode: mode, Logger: log})
		if err != nil {
			return err
		}
		res, err := rawtext.Serialize(parsed.Document, rawtext.WithLogger(log), rawtext.WithParamStyle(style))
		if err != nil {
			return err
		}
		c.Then = res.Message.RawText
	}

	indent := cfg.Indent
	if renderer.Format() == view.FormatPlain {
		indent = 0
	}
	data, err := rawtext.EncodeConditional(c.Condition, c.Then).Encode(indent)
	if err != nil {
		return err
	}
	renderer.RenderRaw(data)
	return nil
}
