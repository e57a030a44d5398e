// Package logging wraps go.uber.org/zap into a single constructor matching
// the pack's structured-logging convention, choosing a
// development (console) or production (JSON) encoder by config rather than
// by build tag.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/komapc/ido-esperanto-extractor/internal/config"
)

// New builds a *zap.Logger per cfg.Format/cfg.Level. "console" (the
// default) uses zap's human-readable development encoder; any other value
// uses the JSON production encoder.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(levelOrDefault(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("logging: parse level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
