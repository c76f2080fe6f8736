// Package logging provides module-scoped structured loggers attached to a context.
package logging

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the logger type used throughout the enforcement layer.
type Logger = *zap.SugaredLogger

// LoggerFactory returns a logger for a given module name.
type LoggerFactory func(module string) Logger

type contextKey string

const loggerFactoryKey contextKey = "logger-factory"

// WithLogger returns a derived context with the associated logger factory.
func WithLogger(ctx context.Context, l LoggerFactory) context.Context {
	if l == nil {
		l = getNullLogger
	}

	return context.WithValue(ctx, loggerFactoryKey, l)
}

// WithAdditionalLogger returns a context where all logging is emitted to the original
// logger factory and the provided one.
func WithAdditionalLogger(ctx context.Context, fact LoggerFactory) context.Context {
	l0 := loggerFactoryFromContext(ctx)

	return WithLogger(ctx, func(module string) Logger {
		return Broadcast(l0(module), fact(module))
	})
}

func loggerFactoryFromContext(ctx context.Context) LoggerFactory {
	v := ctx.Value(loggerFactoryKey)
	if v == nil {
		return getNullLogger
	}

	//nolint:forcetypeassert
	return v.(LoggerFactory)
}

// Module returns a function that returns a logger for a given module when provided with a context.
func Module(module string) func(ctx context.Context) Logger {
	return func(ctx context.Context) Logger {
		return loggerFactoryFromContext(ctx)(module)
	}
}
