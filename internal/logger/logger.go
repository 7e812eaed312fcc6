package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// New creates a logger writing to the file at path. The TUI owns the terminal, so logs never go to
// stdout. The caller closes the returned file.
func New(path string, debug bool) (*slog.Logger, *os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	// Create a text handler that writes to the file
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	// Create a logger with the file handler
	return slog.New(handler), file, nil
}
