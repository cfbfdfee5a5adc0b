// Package logger provides leveled key=value logging for the scraper.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

var (
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
	now    = time.Now
	handle = newHandler(os.Stderr)
)

func newHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch v := a.Value.Any().(type) {
			case time.Time:
				if a.Key == slog.TimeKey {
					return slog.Time(slog.TimeKey, now().UTC())
				}
			case time.Duration:
				return slog.Duration(a.Key, v.Round(time.Millisecond))
			}
			return a
		},
	})
}

// SetOutput sets the writer for all loggers. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	handle = newHandler(w)
}

// SetVerbose enables debug lines.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Logger writes lines carrying a fixed set of fields
type Logger struct {
	fields []any
}

// New returns a logger with no fields
func New() *Logger {
	return &Logger{}
}

// With returns a child logger that prefixes every line with kv
func (l *Logger) With(kv ...any) *Logger {
	fields := make([]any, 0, len(l.fields)+len(kv))
	fields = append(fields, l.fields...)
	fields = append(fields, kv...)
	return &Logger{fields: fields}
}

func (l *Logger) Debug(msg string, kv ...any) { l.log(slog.LevelDebug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.log(slog.LevelInfo, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.log(slog.LevelWarn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.log(slog.LevelError, msg, kv) }

// log resolves the handler per call so SetOutput reaches loggers built earlier
func (l *Logger) log(lvl slog.Level, msg string, kv []any) {
	mu.RLock()
	h := handle
	mu.RUnlock()

	args := make([]any, 0, len(l.fields)+len(kv))
	args = append(args, l.fields...)
	args = append(args, kv...)
	slog.New(h).Log(context.Background(), lvl, msg, args...)
}
