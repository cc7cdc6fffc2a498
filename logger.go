package bufarray

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger is the structured logger used by arrays and archives. Field names
// are shared across all operations: path, shape, segments, name, error.
type Logger struct {
	*slog.Logger
}

// NewLogger returns a Logger writing to handler. A nil handler logs text at
// Info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger returns a Logger writing JSON lines at level or above to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger returns a Logger writing logfmt text at level or above to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything, leak warnings included.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithPath returns a Logger that tags every record with path.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.Logger.With("path", path)}
}

// LogOpen records the construction of an array.
func (l *Logger) LogOpen(ctx context.Context, path string, shape Shape, segments int, err error) {
	l.result(ctx, "open", err, "path", path, "shape", shape.String(), "segments", segments)
}

// LogClose records the release of an array.
func (l *Logger) LogClose(ctx context.Context, path string, err error) {
	l.result(ctx, "close", err, "path", path)
}

// LogFlush records failed flushes only; successful ones are too frequent.
func (l *Logger) LogFlush(ctx context.Context, path string, err error) {
	if err != nil {
		l.result(ctx, "flush", err, "path", path)
	}
}

// LogTransfer records an archive save or load.
func (l *Logger) LogTransfer(ctx context.Context, op, name string, elements int64, duration time.Duration, err error) {
	l.result(ctx, op, err, "name", name, "elements", elements, "duration", duration)
}

// result logs "<op> failed" at Error or "<op> completed" at Debug.
func (l *Logger) result(ctx context.Context, op string, err error, attrs ...any) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed", append(attrs, "error", err)...)
		return
	}
	l.DebugContext(ctx, op+" completed", attrs...)
}
