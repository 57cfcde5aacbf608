// Package logging builds the zap loggers used by boundaries and tools.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a production logger at the given level ("debug", "info",
// "warn", "error"; empty means info). Format "console" switches from JSON to
// the human-readable encoder.
func New(level, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	switch format {
	case "", "json":
	case "console":
		cfg.Encoding = "console"
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	return cfg.Build()
}
