// Package logging builds the zap logger shared by the bus and the screens.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger at the given level writing to file.
// An empty file yields a no-op logger: the terminal UI owns stdout and
// stderr, so there is nowhere else to write while it runs.
// The returned sync func flushes buffered entries and is always non-nil.
func New(level, file string) (*zap.SugaredLogger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	if file == "" {
		return zap.NewNop().Sugar(), func() {}, nil
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{file},
		ErrorOutputPaths: []string{file},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("logging: opening %s: %w", file, err)
	}

	sugar := logger.Sugar().Named("contactbus")
	return sugar, func() { _ = logger.Sync() }, nil
}
