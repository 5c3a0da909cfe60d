// Package enginelog provides leveled logging for the burgerline engine,
// plus a trace-scoped decorator that tags log lines with an order's
// correlation ID. The generator and dispatcher log per-order lines through
// it; the lane worker does not log here, its lane log-ring entries carry
// the same ID instead.
package enginelog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"
)

// LogLevel represents the available log levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger wraps stdlib log with level support.
type Logger struct {
	logger *log.Logger
	level  LogLevel
	mu     sync.Mutex
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// Config holds logging configuration.
type Config struct {
	Level  LogLevel
	Output io.Writer
}

// DefaultConfig returns a sensible default configuration: info level,
// stderr output.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// New creates a new Logger.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		logger: log.New(output, "", log.LstdFlags),
		level:  cfg.Level,
	}
}

// Default returns the process-wide default logger, creating it on first
// use.
func Default() *Logger {
	defaultMu.RLock()
	if defaultLogger != nil {
		defer defaultMu.RUnlock()
		return defaultLogger
	}
	defaultMu.RUnlock()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(nil)
	}
	return defaultLogger
}

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// shortTrace renders a uuid.UUID as its first 8 hex characters, since a
// console log line has no room for the full 36-character form and the
// dispatcher/lane hand-off only needs enough of it to grep one order's
// lines out of a run. uuid.Nil (entries not tied to an order) renders as
// "-" rather than a string of zeros.
func shortTrace(id uuid.UUID) string {
	if id == uuid.Nil {
		return "-"
	}
	return id.String()[:8]
}

// formatValue renders one arg value, shortening uuid.UUID values the way
// shortTrace does so a trace ID passed as a plain key-value arg (not via
// WithTrace) still prints legibly.
func formatValue(v any) string {
	if id, ok := v.(uuid.UUID); ok {
		return shortTrace(id)
	}
	return fmt.Sprintf("%v", v)
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var result string
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			if result != "" {
				result += " "
			}
			result += fmt.Sprintf("%v=%s", args[i], formatValue(args[i+1]))
		}
	}
	if result != "" {
		return " " + result
	}
	return ""
}

func (l *Logger) log(level LogLevel, prefix, msg string, args ...any) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf("%s %s%s", prefix, msg, formatArgs(args))
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, "[DEBUG]", msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, "[INFO]", msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, "[WARN]", msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, "[ERROR]", msg, args...) }

// WithTrace returns a TraceLogger that prepends trace_id=<short> to every
// line it logs, so the lines the generator and dispatcher log for one
// order can be grepped out of the run by that one ID.
func (l *Logger) WithTrace(traceID uuid.UUID) *TraceLogger {
	return &TraceLogger{l: l, traceID: traceID}
}

// TraceLogger decorates a Logger with a fixed order trace ID. The zero
// value is not usable; obtain one from Logger.WithTrace or the
// package-level WithTrace.
type TraceLogger struct {
	l       *Logger
	traceID uuid.UUID
}

func (t *TraceLogger) args(rest []any) []any {
	return append([]any{"trace_id", t.traceID}, rest...)
}

func (t *TraceLogger) Debug(msg string, args ...any) { t.l.Debug(msg, t.args(args)...) }
func (t *TraceLogger) Info(msg string, args ...any)  { t.l.Info(msg, t.args(args)...) }
func (t *TraceLogger) Warn(msg string, args ...any)  { t.l.Warn(msg, t.args(args)...) }
func (t *TraceLogger) Error(msg string, args ...any) { t.l.Error(msg, t.args(args)...) }

// Debug logs msg at debug level on the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs msg at info level on the default logger.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs msg at warn level on the default logger.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs msg at error level on the default logger.
func Error(msg string, args ...any) { Default().Error(msg, args...) }

// WithTrace returns a trace-scoped decorator over the default logger.
func WithTrace(traceID uuid.UUID) *TraceLogger { return Default().WithTrace(traceID) }
