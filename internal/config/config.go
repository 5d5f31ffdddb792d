// Package config provides configuration management for rtx.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/rawtext-cli/pkg/rawtext"
)

// DefaultIndent is the JSON indent used when the config does not set one.
const DefaultIndent = 2

// Config holds the rtx configuration.
type Config struct {
	TranslateMode string `yaml:"translate_mode,omitempty" validate:"omitempty,oneof=simple visual advanced"`
	WithStyle     string `yaml:"with_style,omitempty" validate:"omitempty,oneof=rawtext array strings"`
	Indent        int    `yaml:"indent" validate:"gte=0,lte=8"`
	OutputFormat  string `yaml:"output_format,omitempty" validate:"omitempty,oneof=json pretty plain"`
	LogLevel      string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFile       string `yaml:"log_file,omitempty"`
}

// Environment variables that override config file values.
const (
	EnvTranslateMode = "RTX_TRANSLATE_MODE"
	EnvWithStyle     = "RTX_WITH_STYLE"
	EnvIndent        = "RTX_INDENT"
	EnvOutput        = "RTX_OUTPUT"
	EnvLogLevel      = "RTX_LOG_LEVEL"
	EnvLogFile       = "RTX_LOG_FILE"
	EnvLogLevelAlt   = "LOG_LEVEL"
)

// EnvVars lists every variable LoadFromEnv reads.
var EnvVars = []string{
	EnvTranslateMode, EnvWithStyle, EnvIndent, EnvOutput,
	EnvLogLevel, EnvLogFile, EnvLogLevelAlt,
}

// Default returns a config with every default filled in.
func Default() *Config {
	return &Config{Indent: DefaultIndent}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks that every field holds an accepted value.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be between 0 and 8", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Mode returns the default parameter mode for translate tags.
func (c *Config) Mode() (rawtext.Mode, error) {
	return rawtext.ParseMode(c.TranslateMode)
}

// Style returns the wire shape for serialized translate parameters.
func (c *Config) Style() (rawtext.WithStyle, error) {
	return rawtext.ParseWithStyle(c.WithStyle)
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: RTX_* → generic fallback (LOG_LEVEL) → existing config value
func (c *Config) LoadFromEnv() {
	if mode := os.Getenv(EnvTranslateMode); mode != "" {
		c.TranslateMode = mode
	}
	if style := os.Getenv(EnvWithStyle); style != "" {
		c.WithStyle = style
	}
	if indent := os.Getenv(EnvIndent); indent != "" {
		if n, err := strconv.Atoi(indent); err == nil {
			c.Indent = n
		}
	}
	if output := os.Getenv(EnvOutput); output != "" {
		c.OutputFormat = output
	}
	if level := getEnvWithFallback(EnvLogLevel, EnvLogLevelAlt); level != "" {
		c.LogLevel = level
	}
	if file := os.Getenv(EnvLogFile); file != "" {
		c.LogFile = file
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rtx", "config.yml")
	}

	// Fall back to ~/.config/rtx/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".rtx", "config.yml")
	}

	return filepath.Join(home, ".config", "rtx", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		// If file doesn't exist, start with defaults
		cfg = Default()
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
