package configcmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/config"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

// NewCmdValidate creates the config validate command.
func NewCmdValidate() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate",
		Aliases: []string{"test"},
		Short:   "Check the configuration and encode a sample message",
		Long: `Check that every configured value is accepted, then encode a sample
message with the configured translate mode and parameter style.`,
		Example: `  # Validate config
  rtx config validate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			cfg, err := config.LoadWithEnv(configPath(cmd))
			if err != nil {
				return fmt.Errorf("failed to load config: %w (run 'rtx init' to configure)", err)
			}
			return runValidate(cfg, cmd.OutOrStdout(), noColor)
		},
	}

	return cmd
}

// sampleParams holds one text parameter written in each mode.
var sampleParams = map[rawtext.Mode]string{
	rawtext.ModeSimple:   "A",
	rawtext.ModeVisual:   rawtext.PrefixText + "A",
	rawtext.ModeAdvanced: `[{"text":"A"}]`,
}

func runValidate(cfg *config.Config, out io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if err := cfg.Validate(); err != nil {
		_, _ = red.Fprintln(out, "✗ Invalid configuration:", err)
		fmt.Fprintln(out, "\nCheck your values with: rtx config show")
		fmt.Fprintln(out, "Reconfigure with: rtx init")
		return fmt.Errorf("invalid config: %w", err)
	}
	_, _ = green.Fprintln(out, "✓ Configuration is valid")

	mode, err := cfg.Mode()
	if err != nil {
		return err
	}
	style, err := cfg.Style()
	if err != nil {
		return err
	}

	doc := rawtext.Document{
		rawtext.TextRun{Text: "Hello "},
		rawtext.SelectorNode{Selector: "@p"},
		rawtext.TranslateNode{Key: "%%s", Mode: mode, With: sampleParams[mode]},
	}
	res, err := rawtext.Serialize(doc, rawtext.WithParamStyle(style))
	if err != nil {
		_, _ = red.Fprintln(out, "✗ Sample message failed:", err)
		return fmt.Errorf("sample message failed: %w", err)
	}
	if len(res.Warnings) > 0 {
		_, _ = red.Fprintln(out, "✗ Sample message failed:", res.Warnings[0])
		return fmt.Errorf("sample message failed: %s", res.Warnings[0])
	}
	data, err := res.Message.Encode(0)
	if err != nil {
		return err
	}

	_, _ = green.Fprintln(out, "✓ Sample message encoded")
	fmt.Fprintf(out, "\nMode %s, style %s:\n%s\n", mode, style, data)

	return nil
}
