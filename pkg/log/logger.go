package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/socialpulse/addictml/pkg/errors"
)

// SetupLogger installs the process-wide JSON logger with stacktrace
// extraction. The level must have been validated with ValidateLevel first.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	slog.SetDefault(slog.New(WithStacktraces(handler)))
}

// ValidateLevel reports whether a level string from a flag or config file is
// usable with SetupLogger.
func ValidateLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.Newf("invalid log level %q (want debug, info, warn or error)", level)
	}
}

// ToLogLevel converts a config string to a slog level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
