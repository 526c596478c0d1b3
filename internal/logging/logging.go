// Package logging builds the slog loggers used by the chatline demo.
//
// The terminal belongs to the UI, so logs go to a file through a tint
// handler, or nowhere.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
)

// Config holds the logging configuration.
type Config struct {
	// Path is the log file. Empty discards all records.
	Path string
	// Debug lowers the minimum level from info to debug.
	Debug bool
	// Color enables ANSI colors in the output.
	Color bool
}

// New returns a logger writing tint-formatted records to w.
func New(w io.Writer, cfg Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !cfg.Color,
	}))
}

// Open creates the log file named by cfg.Path, appending to an existing
// one. The returned closer releases the file.
func Open(cfg Config) (*slog.Logger, io.Closer, error) {
	if cfg.Path == "" {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "logging: create log dir")
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "logging: open log file")
	}
	return New(f, cfg), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
