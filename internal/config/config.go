// Package config holds symfilt configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/skdltmxn/symdemangle/demangle"
	"github.com/skdltmxn/symdemangle/internal/logging"
)

// ErrInvalidConfig indicates a configuration value out of range.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config controls which demangling layers run and how.
type Config struct {
	// Demangle is the global display switch for Itanium and Rust names.
	Demangle bool `yaml:"demangle"`

	// Per-layer switches used by the CLI.
	CXX bool `yaml:"cxx"`
	Z   bool `yaml:"z"`

	// Abort on Z-encoded symbols using the reserved library prefix.
	FatalReservedPrefix bool `yaml:"fatal_reserved_prefix"`

	// Options passed to the Itanium decoder, see demangle.GeneralOptions.
	GeneralOptions []string `yaml:"general_options"`

	// Worker count for bulk commands; 0 means one per CPU.
	Jobs int `yaml:"jobs"`

	Logging logging.Config `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Demangle:            true,
		CXX:                 true,
		Z:                   true,
		FatalReservedPrefix: true,
		Logging:             logging.DefaultConfig(),
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SYMFILT_DEMANGLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: SYMFILT_DEMANGLE=%q", ErrInvalidConfig, v)
		}
		c.Demangle = b
	}
	if v := os.Getenv("SYMFILT_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must not be negative", ErrInvalidConfig)
	}
	if _, err := demangle.NewItaniumDecoder(c.GeneralOptions...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c.Logging.Validate()
}

// RegisterFlags defines command-line overrides on fs, defaulting to the
// built-in configuration. ApplyFlags copies the ones the user set.
func RegisterFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()
	fs.Bool("demangle", def.Demangle, "demangle C++ and Rust names")
	fs.Bool("fatal-reserved", def.FatalReservedPrefix, "fail on Z-encoded symbols with the reserved library prefix")
	fs.StringSlice("cxx-option", def.GeneralOptions,
		"C++ demangler option ("+strings.Join(demangle.GeneralOptions, ", ")+")")
	fs.IntP("jobs", "j", def.Jobs, "parallel workers for bulk commands (0 = one per CPU)")
	fs.String("log-level", def.Logging.Level, "log level (debug, info, warn, error)")
}

// ApplyFlags overrides c with every flag registered by RegisterFlags that was
// set on the command line, then validates the result.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	if fs.Changed("demangle") {
		if c.Demangle, err = fs.GetBool("demangle"); err != nil {
			return err
		}
	}
	if fs.Changed("fatal-reserved") {
		if c.FatalReservedPrefix, err = fs.GetBool("fatal-reserved"); err != nil {
			return err
		}
	}
	if fs.Changed("cxx-option") {
		if c.GeneralOptions, err = fs.GetStringSlice("cxx-option"); err != nil {
			return err
		}
	}
	if fs.Changed("jobs") {
		if c.Jobs, err = fs.GetInt("jobs"); err != nil {
			return err
		}
	}
	if fs.Changed("log-level") {
		if c.Logging.Level, err = fs.GetString("log-level"); err != nil {
			return err
		}
	}
	return c.Validate()
}

// Demangler builds the demangler this configuration describes.
func (c *Config) Demangler(opts ...demangle.Option) (*demangle.Demangler, error) {
	general, err := demangle.NewItaniumDecoder(c.GeneralOptions...)
	if err != nil {
		return nil, err
	}
	base := []demangle.Option{
		demangle.WithGeneralDecoder(general),
		demangle.WithDisplay(c.Demangle),
		demangle.WithFatalReservedPrefix(c.FatalReservedPrefix),
	}
	return demangle.New(append(base, opts...)...), nil
}
