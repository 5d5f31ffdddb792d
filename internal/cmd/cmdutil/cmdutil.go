// Package cmdutil holds the state shared by rtx commands: global flags, config, logger and I/O.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/open-cli-collective/rawtext-cli/internal/config"
	"github.com/open-cli-collective/rawtext-cli/internal/logging"
	"github.com/open-cli-collective/rawtext-cli/internal/view"
)

// ErrNoInput is returned when a command needs input and stdin is a terminal.
var ErrNoInput = errors.New("no input: pass a file or pipe content on stdin")

// Options carries global flags and injectable dependencies.
// Config and Logger are loaded on first use when nil, which lets tests supply their own.
type Options struct {
	ConfigPath string
	Output     string
	NoColor    bool
	Verbose    bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Config *config.Config
	Logger *zap.Logger
}

// FromCommand reads the persistent flags of the root command.
func FromCommand(cmd *cobra.Command) *Options {
	opts := &Options{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.Output, _ = cmd.Flags().GetString("output")
	opts.NoColor, _ = cmd.Flags().GetBool("no-color")
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")
	return opts
}

// LoadConfig loads and validates the config once.
func (o *Options) LoadConfig() (*config.Config, error) {
	if o.Config != nil {
		return o.Config, nil
	}

	path := o.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'rtx init' to configure)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'rtx init' to configure)", err)
	}

	o.Config = cfg
	return cfg, nil
}

// Log returns the command logger, building it from config on first use.
func (o *Options) Log() (*zap.Logger, error) {
	if o.Logger != nil {
		return o.Logger, nil
	}

	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: o.Verbose,
		File:    cfg.LogFile,
		Console: o.stderr(),
	})
	if err != nil {
		return nil, err
	}

	o.Logger = log
	return log, nil
}

// Renderer returns a renderer for --output, falling back to the configured format, then def.
func (o *Options) Renderer(def view.Format) (*view.Renderer, error) {
	format := o.Output
	if format == "" {
		cfg, err := o.LoadConfig()
		if err != nil {
			return nil, err
		}
		format = cfg.OutputFormat
	}
	if err := view.ValidateFormat(format); err != nil {
		return nil, err
	}
	if format == "" {
		format = string(def)
	}

	r := view.NewRenderer(view.Format(format), o.NoColor)
	r.SetWriter(o.stdout())
	return r, nil
}

// ReadInput reads path, or stdin when path is empty or "-".
func (o *Options) ReadInput(path string) ([]byte, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return data, nil
	}

	in := o.Stdin
	if in == nil {
		in = os.Stdin
	}
	// Refuse to block on an interactive terminal
	if f, ok := in.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return nil, ErrNoInput
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// Sync flushes the logger if one was built.
func (o *Options) Sync() {
	if o.Logger != nil {
		_ = o.Logger.Sync()
	}
}

func (o *Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o *Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}
