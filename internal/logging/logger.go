// Package logging builds the file-backed zap logger for fundwise.
// The interactive UI owns stdout/stderr, so log output goes to a file
// under the state directory instead of the terminal.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the logs directory.
const FileName = "fundwise.log"

// New creates a production zap logger writing to dir/fundwise.log.
// With verbose set, the level is lowered to debug. An empty dir yields
// a no-op logger so callers never need to nil-check.
func New(dir string, verbose bool) (*zap.Logger, error) {
	if dir == "" {
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(dir, FileName)}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
