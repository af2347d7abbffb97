package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/chaoseq/internal/config"
)

// newLogger logs to lc.File when set. Otherwise it logs to stderr, or
// nowhere when quiet, since the terminal sink owns the screen.
func newLogger(lc config.LogConfig, quiet bool) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	if lc.File != "" {
		zc := zap.NewProductionConfig()
		zc.Level = level
		zc.OutputPaths = []string{lc.File}
		zc.ErrorOutputPaths = []string{lc.File}
		return zc.Build()
	}
	if quiet {
		return zap.NewNop(), nil
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = level
	zc.DisableStacktrace = true
	return zc.Build()
}
