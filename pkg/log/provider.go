package log

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// ZerologProvider is the default LoggerProvider. Loggers obtained from it
// read the provider's output and level at emission time, so SetLevel and
// SetOutput affect loggers that were created earlier.
type ZerologProvider struct {
	mu    sync.RWMutex
	base  zerolog.Logger
	level Level
}

// NewZerologProvider creates a provider writing JSON lines to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{
		base:  zerolog.New(w).With().Timestamp().Logger(),
		level: level,
	}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{provider: p}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{provider: p, fields: []any{ComponentKey, name}}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

// SetOutput redirects all loggers of this provider to w.
func (p *ZerologProvider) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Output(w)
}

func (p *ZerologProvider) enabled(level Level) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return level >= p.level
}

type zerologLogger struct {
	provider *ZerologProvider
	fields   []any
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.log(LevelDebug, msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.log(LevelInfo, msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.log(LevelWarn, msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.log(LevelError, msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	merged := make([]any, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &zerologLogger{provider: l.provider, fields: merged}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.provider.enabled(level)
}

func (l *zerologLogger) log(level Level, msg string, fields []any) {
	if !l.provider.enabled(level) {
		return
	}

	l.provider.mu.RLock()
	base := l.provider.base
	l.provider.mu.RUnlock()

	ev := base.WithLevel(toZerologLevel(level))
	if len(fields) > 0 {
		// 先頭の error は "error" キーで出力する
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			fields = fields[1:]
		}
	}
	if len(l.fields) > 0 {
		ev = ev.Fields(l.fields)
	}
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level < LevelWarn:
		return zerolog.InfoLevel
	case level < LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

var defaultProvider = NewZerologProvider(os.Stderr, LevelInfo)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	errors.SetZerologWarnFunc(func(w error) {
		defaultProvider.GetLoggerWithName("warnings").Warn(w.Error(), "warning", w)
	})
}

// GetLogger returns a logger from the package-level provider.
func GetLogger() Logger {
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a named logger from the package-level provider.
func GetLoggerWithName(name string) Logger {
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel sets the minimum level of the package-level provider.
func SetLevel(level Level) {
	defaultProvider.SetLevel(level)
}

// SetOutput redirects the package-level provider.
func SetOutput(w io.Writer) {
	defaultProvider.SetOutput(w)
}

// DefaultProvider returns the package-level provider.
func DefaultProvider() *ZerologProvider {
	return defaultProvider
}
