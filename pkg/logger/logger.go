package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Default is the logger used by the package-level helpers. Commands replace
// it once the configured level and format are known.
var Default *slog.Logger

func init() {
	Default = New("info", "text", os.Stderr)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a structured logger. Format is "json" or "text"; anything else
// falls back to text.
func New(level, format string, output io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}

// SetDefault replaces the package default logger and the slog default.
func SetDefault(l *slog.Logger) {
	Default = l
	slog.SetDefault(l)
}

// Debug logs a debug message using the default logger.
func Debug(msg string, args ...any) {
	Default.Debug(msg, args...)
}

// Info logs an info message using the default logger.
func Info(msg string, args ...any) {
	Default.Info(msg, args...)
}

// Warn logs a warning message using the default logger.
func Warn(msg string, args ...any) {
	Default.Warn(msg, args...)
}

// Error logs an error message using the default logger.
func Error(msg string, args ...any) {
	Default.Error(msg, args...)
}

// With returns a child of the default logger with extra attributes.
func With(args ...any) *slog.Logger {
	return Default.With(args...)
}
