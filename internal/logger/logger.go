package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fingenie-expense-tracker/internal/config"
)

// NewLogger creates the JSON service logger. Every record carries the application name
// and environment.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)
	logger := New(os.Stdout, level).With(
		"app", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	logger.Info("logger initialized", "level", level)

	return logger
}

// New creates a JSON logger writing to w. Source locations are added at debug level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewCLILogger writes human-readable records to w, at debug level when verbose.
func NewCLILogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a LOG_LEVEL value onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
