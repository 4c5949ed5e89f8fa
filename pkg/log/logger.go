package log

import (
	"log/slog"
	"os"
	"strings"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// SetupLogger configures process-wide logging from a textual level.
//
// The zerolog-backed provider returned by GetLogger and GetLoggerWithName is
// set to the level, and slog's default logger is replaced with a JSON handler
// that adds cockroachdb/errors stack details to error attributes.
func SetupLogger(loglevel string) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	SetLevel(level)

	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Key = "severity"
			case slog.MessageKey:
				attr.Key = "message"
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stderr, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
	return nil
}

// ParseLevel converts "debug", "info", "warn" or "error" (case-insensitive)
// into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValueError("ParseLevel", "invalid log level: "+level)
	}
}

// ToLogLevel is ParseLevel for slog. Unknown levels fall back to info.
func ToLogLevel(level string) slog.Level {
	l, err := ParseLevel(level)
	if err != nil {
		return slog.LevelInfo
	}
	return slog.Level(l)
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
