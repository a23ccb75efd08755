package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

var loggerKey contextKey

// ToContext stores log in ctx for FromContext to find.
func ToContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger stored in ctx, falling back to
// slog.Default so callers never get nil.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// With derives a logger carrying args and returns it with a context that
// holds it, so callees log the same attributes.
func With(ctx context.Context, args ...any) (*slog.Logger, context.Context) {
	log := FromContext(ctx).With(args...)
	return log, ToContext(ctx, log)
}

// IsDebugEnabled reports whether the context logger emits debug records.
// Guard debug lines whose attributes are costly to build.
func IsDebugEnabled(ctx context.Context) bool {
	return FromContext(ctx).Enabled(ctx, slog.LevelDebug)
}
