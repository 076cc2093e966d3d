package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level represents the minimum log level
type Level slog.Level

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// Options configures a StructuredLogger.
type Options struct {
	Level  Level
	Writer io.Writer

	// NoColor forces plain output. Colour is also disabled automatically when
	// Writer is not a terminal.
	NoColor bool
}

// StructuredLogger implements Logger on top of slog with a tint handler.
type StructuredLogger struct {
	logger *slog.Logger
}

// New returns a logger writing to stderr at the given level.
func New(level Level) *StructuredLogger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions returns a logger configured by opts.
func NewWithOptions(opts Options) *StructuredLogger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handler := tint.NewHandler(w, &tint.Options{
		NoColor:    opts.NoColor || !isTerminal(w),
		TimeFormat: time.Kitchen,
		Level:      slog.Level(opts.Level),
	})
	return &StructuredLogger{logger: slog.New(handler)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (l *StructuredLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, withCaller(args...)...)
}

func (l *StructuredLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, withCaller(args...)...)
}

func (l *StructuredLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, withCaller(args...)...)
}

func (l *StructuredLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, withCaller(args...)...)
}

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{logger: l.logger.With(args...)}
}

func withCaller(args ...any) []any {
	const callerSkip = 2 // withCaller and the logging method
	if _, file, line, ok := runtime.Caller(callerSkip); ok {
		return append([]any{"caller", formatCaller(file, line)}, args...)
	}
	return args
}

func formatCaller(file string, line int) string {
	parts := strings.Split(file, "/")
	switch len(parts) {
	case 0:
		return "unknown"
	case 1:
		return fmt.Sprintf("%s:%d", parts[0], line)
	default:
		return fmt.Sprintf("%s/%s:%d", parts[len(parts)-2], parts[len(parts)-1], line)
	}
}
