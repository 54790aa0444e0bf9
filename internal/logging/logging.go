// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/entorb/flashcards-sub001/internal/config"
)

// New creates a *slog.Logger writing to w and sets it as the default
// logger via slog.SetDefault.
//
// Format "json" produces structured JSON output.
// Format "text" produces human-readable output with source info.
// Level is one of: debug, info, warn, error (case-insensitive); defaults to info.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	logger := slog.New(newHandler(cfg, w))
	slog.SetDefault(logger)
	return logger
}

// Open resolves the log destination and returns a logger plus a closer for
// the underlying file. An empty cfg.File writes to fallback. The terminal
// UI passes a file fallback since stderr would corrupt the screen.
func Open(cfg config.LogConfig, fallback string) (*slog.Logger, io.Closer, error) {
	path := cfg.File
	if path == "" {
		path = fallback
	}
	if path == "" {
		return New(cfg, os.Stderr), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(cfg, f), f, nil
}

func newHandler(cfg config.LogConfig, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
