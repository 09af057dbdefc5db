package app

import (
	"io"
	"log/slog"
)

// newLogger builds the App's logger from the configured level and format.
// The result is returned rather than installed globally so concurrent App
// instances (the test harness boots several) keep isolated log streams.
func newLogger(level, format string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(outW, opts)
	default:
		handler = slog.NewTextHandler(outW, opts)
	}
	return slog.New(handler)
}

// parseLogLevel maps a config level string to its slog level. The CLI has
// already rejected unknown values; anything else falls back to info.
func parseLogLevel(level string) slog.Level {
	switch level {
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
