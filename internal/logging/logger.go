// Package logging builds the zap logger used by symfilt.
package logging

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidLogging indicates an unusable logging configuration.
var ErrInvalidLogging = errors.New("logging: invalid configuration")

// Config selects level and encoding.
type Config struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// DefaultConfig logs warnings and above to the console.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console"}
}

// Validate checks the level and format names.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: level %q", ErrInvalidLogging, c.Level)
	}
	switch c.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("%w: format %q", ErrInvalidLogging, c.Format)
	}
}

// New builds a logger writing to stderr. verbose forces debug level.
func New(c Config, verbose bool) (*zap.Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, err := zapConfig(c, verbose).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func zapConfig(c Config, verbose bool) zap.Config {
	var config zap.Config
	if c.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.Development = false
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	// Diagnostics describe input symbols, not bugs in symfilt.
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	level, _ := zapcore.ParseLevel(c.Level)
	if verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	return config
}
