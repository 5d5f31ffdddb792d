// Package init provides the init command for rtx.
package init

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rawtext-cli/internal/config"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

type initOptions struct {
	*cmdutil.Options
	noInput  bool
	force    bool
	mode     string
	style    string
	output   string
	logLevel string
	logFile  string
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize rtx configuration",
		Long: `Initialize rtx with your preferred defaults.

This command will guide you through choosing the default translate
parameter mode, the wire shape of parameters, the output format and
logging. The configuration will be saved to ~/.config/rtx/config.yml.`,
		Example: `  # Interactive setup
  rtx init

  # Non-interactive setup
  rtx init --no-input --mode visual --style array`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Write the config from flags without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config without asking")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Default translate parameter mode: simple, visual, advanced")
	cmd.Flags().StringVar(&opts.style, "style", "", "Wire shape of translate parameters: rawtext, array, strings")
	cmd.Flags().StringVar(&opts.output, "output-format", "", "Default output format: pretty, json, plain")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	out := cmd.OutOrStdout()

	// Start from the existing file so a rerun keeps what it doesn't ask about
	cfg, err := config.Load(configPath)
	switch {
	case err == nil:
		if !opts.force {
			if opts.noInput {
				return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
			}
			var overwrite bool
			err := huh.NewConfirm().
				Title("Configuration already exists").
				Description(fmt.Sprintf("Overwrite %s?", configPath)).
				Value(&overwrite).
				Run()
			if err != nil {
				return err
			}
			if !overwrite {
				fmt.Fprintln(out, "Initialization cancelled.")
				return nil
			}
		}
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
	default:
		return err
	}

	applyFlags(cfg, opts)

	if !opts.noInput {
		if err := runForm(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, "  echo 'Hello [SELECTOR value=@p/]' | rtx encode")
	fmt.Fprintln(out, "  rtx selector build --base @a --param tag=vip")

	return nil
}

func applyFlags(cfg *config.Config, opts *initOptions) {
	if opts.mode != "" {
		cfg.TranslateMode = opts.mode
	}
	if opts.style != "" {
		cfg.WithStyle = opts.style
	}
	if opts.output != "" {
		cfg.OutputFormat = opts.output
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}

	// Select fields need a value that matches one of their options
	if cfg.TranslateMode == "" {
		cfg.TranslateMode = string(rawtext.ModeSimple)
	}
	if cfg.WithStyle == "" {
		cfg.WithStyle = string(rawtext.WithStyleRawText)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
}

func runForm(cfg *config.Config) error {
	modes := make([]huh.Option[string], 0, len(rawtext.Modes))
	for _, m := range rawtext.Modes {
		modes = append(modes, huh.NewOption(string(m), string(m)))
	}

	formats := []huh.Option[string]{huh.NewOption("per command", "")}
	for _, f := range view.ValidFormats() {
		formats = append(formats, huh.NewOption(f, f))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Translate parameter mode").
				Description("Used by [TRANSLATE] tags without mode=").
				Options(modes...).
				Value(&cfg.TranslateMode),

			huh.NewSelect[string]().
				Title("Parameter wire shape").
				Description("How resolved parameters are written in \"with\"").
				Options(huh.NewOptions("rawtext", "array", "strings")...).
				Value(&cfg.WithStyle),

			huh.NewSelect[string]().
				Title("Output format").
				Options(formats...).
				Value(&cfg.OutputFormat),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&cfg.LogLevel),

			huh.NewInput().
				Title("Log file (optional)").
				Description("JSON logs are also written here, rotated at 10MB").
				Placeholder("~/.local/state/rtx/rtx.log").
				Value(&cfg.LogFile),
		),
	)

	return form.Run()
}
