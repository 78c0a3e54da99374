// Package logging builds the file-backed logger shared by all components.
// The TUI owns the terminal, so nothing may write to stdout or stderr.
package logging

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the root logger and a flush function. An empty path places the
// log file in the XDG state directory. Components take named children of the
// returned logger ("mediakeys", "player", ...).
func New(level string, path string) (*zap.SugaredLogger, func(), error) {
	if path == "" {
		p, err := xdg.StateFile(filepath.Join("tuner", "tuner.log"))
		if err != nil {
			return nil, nil, fmt.Errorf("resolving log path: %w", err)
		}
		path = p
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}

	sugar := logger.Sugar()
	flush := func() {
		_ = logger.Sync()
	}

	return sugar, flush, nil
}

func parseLevel(level string) zapcore.Level {
	if l, err := zapcore.ParseLevel(level); err == nil {
		return l
	}
	return zapcore.InfoLevel
}
