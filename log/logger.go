package log

import (
	"context"
	"strings"
)

type contextKey string

const loggerKey contextKey = "adforge.logger"

// defaultLevel is used by Ctx when the context carries no logger and by
// LevelFromString for unknown names.
const defaultLevel = LevelInfo

// Logger is the logging interface used throughout adforge. It mirrors the
// slog method set so that adapters for other libraries stay trivial.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger that includes the given attributes in each
	// output operation.
	With(args ...any) Logger
}

// WithLogger returns a new context carrying the given logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger stored in ctx, or a new stderr logger at the default
// level.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return New(defaultLevel)
	}
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return New(defaultLevel)
}

// LevelFromString converts a level name to a Level. Unknown names map to the
// default level.
func LevelFromString(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return defaultLevel
	}
}

// IsValidLevel reports whether value names a known level.
func IsValidLevel(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
