// Package util provides shared helpers for logging and display formatting
// used across the stockwatch client.
package util

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures NewLogger. Zero values fall back to info-level JSON
// logging on stdout.
type LogOptions struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
	File   string // when set, log to this rotating file instead of stdout

	// Rotation settings, used only when File is set.
	MaxSizeMB  int
	MaxBackups int
}

// NewLogger creates a structured logger using log/slog. Unrecognised level
// strings default to "info"; unrecognised formats default to JSON. When
// opts.File is set, output goes to a size-rotated file.
func NewLogger(opts LogOptions) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(opts.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
		}
	}

	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(opts.Format) == "text" {
		handler = slog.NewTextHandler(out, hopts)
	} else {
		handler = slog.NewJSONHandler(out, hopts)
	}

	return slog.New(handler)
}

// SetDefault configures the provided logger as the default slog logger.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
