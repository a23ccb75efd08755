package logger

import (
	"log/slog"
	"strings"
)

func New(level string, handler func(level slog.Level) slog.Handler) *slog.Logger {
	h := handler(getSlogLevel(level))
	return slog.New(h)
}

// HandlerFor picks the handler constructor for a LOGFORMAT value.
// "text" is meant for terminals; anything else logs Cloud Run JSON.
func HandlerFor(format string) func(level slog.Level) slog.Handler {
	if strings.EqualFold(format, "text") {
		return NewConsoleHandler
	}
	return NewCloudRunHandler
}

// ---- Helpers ----
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
