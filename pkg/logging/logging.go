// Package logging builds the zap loggers used by the CLI and the desktop app.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level and output encoding.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
	// Encoding is json or console.
	Encoding string `json:"encoding" yaml:"encoding"`
}

// DefaultConfig logs info and above as console text.
var DefaultConfig = Config{Level: "info", Encoding: "console"}

// New builds a logger writing to stderr.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("logging: level %q: %w", cfg.Level, err)
		}
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = DefaultConfig.Encoding
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	switch encoding {
	case "json":
	case "console":
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		return nil, fmt.Errorf("logging: unknown encoding %q", encoding)
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      level == zapcore.DebugLevel,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}

// Verbose returns cfg at debug level when verbose is set.
func (cfg Config) Verbose(verbose bool) Config {
	if verbose {
		cfg.Level = "debug"
	}
	return cfg
}
