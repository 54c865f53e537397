package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Inject returns a context carrying the logger, typically tagged with
// call-scoped fields such as the retrieval source.
func Inject(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger carried by ctx, or a no-op logger when none
// was injected.
func From(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
