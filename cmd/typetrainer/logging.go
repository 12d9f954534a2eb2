package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/verte-zerg/typetrainer/internal/config"
)

// newLogger builds the process logger. While the TUI owns the terminal the
// log goes to a file; otherwise warnings go to stderr.
func newLogger(interactive, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	if !interactive {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), func() {}, nil
	}

	if !debug {
		level = slog.LevelInfo
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closeFn := func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close of the log file on exit.
			_ = cerr
		}
	}
	return slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})), closeFn, nil
}
