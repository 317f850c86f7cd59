package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultLogger is the default logger implementation. Records are written
// through logrus; the prefix is attached as the "component" field.
type DefaultLogger struct {
	mu     sync.RWMutex
	level  LogLevel
	logger *logrus.Logger
	prefix string
}

// NewDefaultLogger creates a new default logger writing to stdout
func NewDefaultLogger(prefix string) *DefaultLogger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return &DefaultLogger{
		level:  LogLevelInfo,
		logger: l,
		prefix: prefix,
	}
}

// SetLevel sets the logging level
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *DefaultLogger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetOutput sets the output writer
func (l *DefaultLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

func (l *DefaultLogger) log(level LogLevel, format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.level < level {
		return
	}

	entry := logrus.NewEntry(l.logger)
	if l.prefix != "" {
		entry = entry.WithField("component", l.prefix)
	}
	message := fmt.Sprintf(format, args...)

	switch level {
	case LogLevelError:
		entry.Error(message)
	case LogLevelWarn:
		entry.Warn(message)
	case LogLevelInfo:
		entry.Info(message)
	default:
		entry.Debug(message)
	}
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(format string, args ...any) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an info message
func (l *DefaultLogger) Info(format string, args ...any) {
	l.log(LogLevelInfo, format, args...)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(format string, args ...any) {
	l.log(LogLevelWarn, format, args...)
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...any) {
	l.log(LogLevelError, format, args...)
}
