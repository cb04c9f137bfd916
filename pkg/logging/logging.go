// Package logging builds the zap loggers used across the service.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the logger flavour.
type Config struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	// Encoding is "json" or "console"; empty keeps the preset default.
	Encoding string `yaml:"encoding"`
}

// New returns a production logger, or a development one when requested.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	switch cfg.Encoding {
	case "":
	case "json", "console":
		zc.Encoding = cfg.Encoding
	default:
		return nil, fmt.Errorf("logging: unknown encoding %q", cfg.Encoding)
	}

	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}

// Must is New for program entry points.
func Must(cfg Config) *zap.Logger {
	logger, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return logger
}
