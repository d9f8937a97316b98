package http

import (
	"context"
	"log/slog"

	"github.com/example/room-reservations/internal/logging"
)

// ContextWithLogger returns a derived context carrying the request scoped
// logger. Services read it back through the logging package.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request scoped logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
