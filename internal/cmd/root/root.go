// Package root provides the root command for the rtx CLI.
package root

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/completion"
	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cond"
	"github.com/open-cli-collective/rawtext-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/rawtext-cli/internal/cmd/decode"
	"github.com/open-cli-collective/rawtext-cli/internal/cmd/encode"
	initcmd "github.com/open-cli-collective/rawtext-cli/internal/cmd/init"
	"github.com/open-cli-collective/rawtext-cli/internal/cmd/preview"
	"github.com/open-cli-collective/rawtext-cli/internal/cmd/selector"
	"github.com/open-cli-collective/rawtext-cli/internal/cmd/translate"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/internal/version"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

// NewCmdRoot creates the root command for rtx.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rtx",
		Short: "A command-line toolkit for RawText messages",
		Long: `rtx converts between editable markup and RawText JSON messages.

It encodes text with [SELECTOR], [SCORE], [TRANSLATE] and [IF] tags into
{"rawtext":[...]} messages, decodes messages back into markup, and builds
selectors, translations and conditionals from the command line.

Get started by running: rtx init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/rtx/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: "+strings.Join(view.ValidFormats(), ", ")+" (default per command)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log debug details to stderr")

	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(encode.NewCmdEncode())
	cmd.AddCommand(decode.NewCmdDecode())
	cmd.AddCommand(preview.NewCmdPreview())
	cmd.AddCommand(selector.NewCmdSelector())
	cmd.AddCommand(translate.NewCmdTranslate())
	cmd.AddCommand(cond.NewCmdCond())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	registerCompletions(cmd)

	return cmd
}

// registerCompletions completes the enumerated flag values on every command.
func registerCompletions(root *cobra.Command) {
	modes := make([]string, 0, len(rawtext.Modes))
	for _, m := range rawtext.Modes {
		modes = append(modes, string(m))
	}
	styles := []string{
		string(rawtext.WithStyleRawText),
		string(rawtext.WithStyleArray),
		string(rawtext.WithStyleStrings),
	}

	completion.RegisterValues(root, "output", view.ValidFormats()...)

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		completion.RegisterValues(c, "mode", modes...)
		completion.RegisterValues(c, "style", styles...)
		completion.RegisterValues(c, "base", rawtext.Bases...)
		completion.RegisterValues(c, "output-format", view.ValidFormats()...)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(root)
}
