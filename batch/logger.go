package batch

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for per-batch detail: sizes, boundaries, timings.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for Run lifecycle events.
	LogLevelInfo
	// LogLevelWarn is for unexpected conditions that do not end a Run.
	LogLevelWarn
	// LogLevelError is for failed Runs.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the interface for logging within the scheduler. The Logger
// is optional - if not provided, no logging occurs.
type Logger interface {
	// Log writes a log message at the specified level.
	// The message is formatted using fmt.Sprintf if args are provided.
	Log(level LogLevel, format string, args ...interface{})

	// Debug logs a debug-level message.
	Debug(format string, args ...interface{})

	// Info logs an info-level message.
	Info(format string, args ...interface{})

	// Warn logs a warning-level message.
	Warn(format string, args ...interface{})

	// Error logs an error-level message.
	Error(format string, args ...interface{})
}

// NoOpLogger is a logger that discards all log messages.
// This is the default logger when none is specified.
type NoOpLogger struct{}

// Log implements the Logger interface.
func (n *NoOpLogger) Log(level LogLevel, format string, args ...interface{}) {}

// Debug implements the Logger interface.
func (n *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info implements the Logger interface.
func (n *NoOpLogger) Info(format string, args ...interface{}) {}

// Warn implements the Logger interface.
func (n *NoOpLogger) Warn(format string, args ...interface{}) {}

// Error implements the Logger interface.
func (n *NoOpLogger) Error(format string, args ...interface{}) {}

// ZerologLogger routes scheduler logs to a zerolog.Logger. Levels map one to
// one; filtering is left to the zerolog logger's own level.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps logger. Every message carries component=framebatch.
//
//	zl := zerolog.New(os.Stderr).Level(zerolog.InfoLevel)
//	s := batch.New(ticker, nil).WithLogger(batch.NewZerologLogger(zl))
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{
		logger: logger.With().Str("component", "framebatch").Logger(),
	}
}

// Log implements the Logger interface.
func (z *ZerologLogger) Log(level LogLevel, format string, args ...interface{}) {
	var ev *zerolog.Event
	switch level {
	case LogLevelDebug:
		ev = z.logger.Debug()
	case LogLevelInfo:
		ev = z.logger.Info()
	case LogLevelWarn:
		ev = z.logger.Warn()
	case LogLevelError:
		ev = z.logger.Error()
	default:
		ev = z.logger.Log()
	}
	if len(args) == 0 {
		ev.Msg(format)
		return
	}
	ev.Msg(fmt.Sprintf(format, args...))
}

// Debug implements the Logger interface.
func (z *ZerologLogger) Debug(format string, args ...interface{}) {
	z.Log(LogLevelDebug, format, args...)
}

// Info implements the Logger interface.
func (z *ZerologLogger) Info(format string, args ...interface{}) {
	z.Log(LogLevelInfo, format, args...)
}

// Warn implements the Logger interface.
func (z *ZerologLogger) Warn(format string, args ...interface{}) {
	z.Log(LogLevelWarn, format, args...)
}

// Error implements the Logger interface.
func (z *ZerologLogger) Error(format string, args ...interface{}) {
	z.Log(LogLevelError, format, args...)
}
