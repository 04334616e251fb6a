package logging

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	// DebugLevel covers per-phase detail such as load statistics
	DebugLevel Level = iota
	// InfoLevel is the default
	InfoLevel
	// WarnLevel flags degraded input that was tolerated, e.g. skipped lines
	WarnLevel
	// ErrorLevel flags a failed computation or sink write
	ErrorLevel
)

// String returns the upper-case name of a level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name. The second result is
// false, and the level InfoLevel, for unknown names.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, true
	case "info", "":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	default:
		return InfoLevel, false
	}
}

// Field is a key-value pair attached to a log entry
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logger used across the module
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that adds fields to every entry
	With(fields ...Field) Logger
	// Enabled reports whether entries at level are written
	Enabled(level Level) bool
}

// JSONLogger writes one JSON object per line. Child loggers created by With
// share the parent's writer and lock.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex
}

// LogEntry is the JSON shape of one line
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) Enabled(level Level) bool          { return false }

// NewNopLogger returns a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation measures the duration of one operation
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
