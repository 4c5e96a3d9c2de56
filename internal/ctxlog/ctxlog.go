// Package ctxlog передаёт *slog.Logger через context.Context.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

// key — неэкспортируемый тип, чтобы не пересекаться с ключами других пакетов.
type key struct{}

var loggerKey = key{}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger возвращает контекст с вложенным логгером.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext достаёт логгер из контекста. Если логгера нет,
// возвращается логгер, который ничего не пишет.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return logger
		}
	}
	return discard
}
