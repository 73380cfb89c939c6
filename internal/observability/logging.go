// Package observability provides structured logging and telemetry setup.
package observability

import (
	"io"
	"log/slog"
	"strings"
)

// InitLogger configures the global slog logger with JSON output at the
// given level. Logs go to w so report output can own stdout.
func InitLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
