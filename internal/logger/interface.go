package logger

import "context"

// Logger is the leveled, printf-style logger shared by every package.
// The context is used to attach per-run fields such as the run id.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
	// With returns a child logger that adds the given key/value pairs to every entry.
	With(keysAndValues ...interface{}) Logger
	Sync()
}
