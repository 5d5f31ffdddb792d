package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rawtext-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current rtx configuration with value source indicators.`,
		Example: `  # Show current config
  rtx config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(configPath(cmd), cmd.OutOrStdout(), noColor)
		},
	}

	return cmd
}

func runShow(configPath string, out io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = config.Default()
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Fprintf(out, "%-16s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(out, "-")
			return
		}

		fmt.Fprint(out, value)

		// Determine source
		source := "config"
		if fileErr != nil {
			source = "default"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}
		if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Fprintf(out, "  (source: %s)\n", source)
	}

	printField("Translate mode", cfg.TranslateMode, fileCfg.TranslateMode, config.EnvTranslateMode)
	printField("With style", cfg.WithStyle, fileCfg.WithStyle, config.EnvWithStyle)
	printField("Indent", strconv.Itoa(cfg.Indent), strconv.Itoa(fileCfg.Indent), config.EnvIndent)
	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, config.EnvOutput)
	printField("Log level", cfg.LogLevel, fileCfg.LogLevel, config.EnvLogLevel, config.EnvLogLevelAlt)
	printField("Log file", cfg.LogFile, fileCfg.LogFile, config.EnvLogFile)

	fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}

	return nil
}
