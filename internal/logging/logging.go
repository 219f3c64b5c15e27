// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the slog logger used by the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/pdiddy/songdedup/pkg/types"
)

// ParseLevel maps debug, info, warn/warning, and error to slog levels.
// Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Setup returns a logger writing text to stderr and, when cfg.File is
// set, JSON to that file as well. The cleanup function closes the file.
func Setup(cfg types.LogConfig, stderr io.Writer) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	if cfg.File == "" {
		return slog.New(textHandler), func() error { return nil }, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}
	return NewWithWriters(stderr, file, level), file.Close, nil
}

// NewWithWriters fans records out as text to stderr and JSON to file.
func NewWithWriters(stderr, file io.Writer, level slog.Level) *slog.Logger {
	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	jsonHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(textHandler, jsonHandler))
}
