package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	passIDKey
)

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithPassID tags ctx and its logger with the id of a reconciliation pass.
func WithPassID(ctx context.Context, passID string) context.Context {
	ctx = context.WithValue(ctx, passIDKey, passID)
	return withStr(ctx, "pass_id", passID)
}

// PassID returns the reconciliation pass id in ctx, if any.
func PassID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(passIDKey).(string)
	return id
}

// WithOperation tags the context logger with the CLI or library operation
// being run (reconcile, import, add).
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, "operation", operation)
}

// WithEvent tags the context logger with an event id.
func WithEvent(ctx context.Context, eventID string) context.Context {
	return withStr(ctx, "event_id", eventID)
}

func withStr(ctx context.Context, key, value string) context.Context {
	l := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &l)
}
