package internal

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel represents different logging verbosity levels
type LogLevel int32

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var levelNames = map[LogLevel]string{
	LogLevelError: "ERROR",
	LogLevelWarn:  "WARN",
	LogLevelInfo:  "INFO",
	LogLevelDebug: "DEBUG",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LogLevel(%d)", int32(l))
}

// ParseLogLevel accepts ERROR, WARN, INFO or DEBUG in any case
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// level is shared by every component logger so one SetLogLevel call
// adjusts the whole process.
var level atomic.Int32

func init() {
	lvl := LogLevelInfo
	if parsed, err := ParseLogLevel(os.Getenv("LOG_LEVEL")); err == nil {
		lvl = parsed
	}
	level.Store(int32(lvl))
}

// SetLogLevel changes the process-wide verbosity
func SetLogLevel(l LogLevel) {
	level.Store(int32(l))
}

// CurrentLogLevel returns the process-wide verbosity
func CurrentLogLevel() LogLevel {
	return LogLevel(level.Load())
}

// Logger writes "[Component] message" lines through the standard logger,
// dropping anything above the current level.
type Logger struct {
	component string
}

// NewLogger creates a logger that tags each line with component
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// Enabled reports whether messages at l would be written
func (lg *Logger) Enabled(l LogLevel) bool {
	return l <= CurrentLogLevel()
}

func (lg *Logger) logf(l LogLevel, format string, args ...interface{}) {
	if !lg.Enabled(l) {
		return
	}
	prefix := "[" + lg.component + "] "
	if l != LogLevelInfo {
		prefix += l.String() + ": "
	}
	log.Printf(prefix+format, args...)
}

// Error logs error messages
func (lg *Logger) Error(format string, args ...interface{}) {
	lg.logf(LogLevelError, format, args...)
}

// Warn logs warning messages
func (lg *Logger) Warn(format string, args ...interface{}) {
	lg.logf(LogLevelWarn, format, args...)
}

// Info logs info messages
func (lg *Logger) Info(format string, args ...interface{}) {
	lg.logf(LogLevelInfo, format, args...)
}

// Debug logs debug messages
func (lg *Logger) Debug(format string, args ...interface{}) {
	lg.logf(LogLevelDebug, format, args...)
}
