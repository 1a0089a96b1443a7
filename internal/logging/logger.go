// Package logging defines the minimal structured-logging interface used
// across keepvault. The engine never logs secret material; messages carry
// counts, uuids and error values only.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key/value
// pairs, e.g.:
//
//	log.Info(ctx, "database loaded", "groups", n, "entries", m)
type Logger interface {
	// Debug logs fine-grained events useful only when tracing a load.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions (e.g. a dropped field).
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key/value
	// pairs.
	With(args ...any) Logger
}

type nopLogger struct{}

// Nop returns a Logger that discards everything. Library entry points take
// it as the default so callers are not forced to configure logging.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }
