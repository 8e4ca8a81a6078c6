// Package observability provides structured logging, metrics and tracing.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide logger. It is replaced by InitLogging at startup.
var Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// ParseLevel maps debug|info|warn|error to a slog level; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// InitLogging installs a JSON logger writing to w (stdout when nil) as both
// Logger and slog's default.
func InitLogging(w io.Writer, level string, service string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	Logger = slog.New(h).With("service", service)
	slog.SetDefault(Logger)
	return Logger
}
