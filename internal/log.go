package internal

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LogLevel represents logging verbosity. All log output goes to stderr so
// stdout stays reserved for machine-readable report JSON and TSV data.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger provides leveled logging for the analysis pipelines.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

// NewLogger creates a logger at the given level writing to w.
func NewLogger(level LogLevel, w io.Writer) *Logger {
	return &Logger{level: level, out: log.New(w, "", 0)}
}

// NewDefaultLogger creates a stderr logger honoring the LOG_LEVEL env var.
func NewDefaultLogger() *Logger {
	level := LogLevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LogLevelError
	case "WARN":
		level = LogLevelWarn
	case "DEBUG":
		level = LogLevelDebug
	}
	return NewLogger(level, os.Stderr)
}

// Progress writes an unprefixed progress line regardless of level. The
// experiment scripts use this for their human-readable run trace.
func (l *Logger) Progress(format string, args ...interface{}) {
	l.out.Print(fmt.Sprintf(format, args...))
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		l.out.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		l.out.Printf("[WARN] "+format, args...)
	}
}

// Info logs info messages.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		l.out.Printf("[INFO] "+format, args...)
	}
}

// Debug logs debug messages.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.out.Printf("[DEBUG] "+format, args...)
	}
}

// DefaultLogger is the shared stderr logger.
var DefaultLogger = NewDefaultLogger()
