// Package ctxlog carries a slog.Logger through context.Context so that the
// editing core can log without owning a logger of its own.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context.
// If no logger is found, it returns slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

// Discard returns a context whose logger drops everything. Handy in tests
// that do not assert on log output.
func Discard() context.Context {
	return WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}
