package mediator

import (
	"context"
	"log"
)

// Logger provides leveled structured logging for dispatch operations.
// Logging is purely observational and never affects dispatch outcomes.
type Logger interface {
	Log(level, message string, metadata map[string]any)
}

// Log levels passed to Logger.Log.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
)

// Context keys for passing a logger through context.
type contextKey int

const (
	loggerKey contextKey = iota
)

// ContextWithLogger adds a logger to the context.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op
// logger if not found.
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return NopLogger{}
}

// NopLogger discards all log calls. It is the default when no logger is
// configured.
type NopLogger struct{}

// Log implements the Logger interface.
func (NopLogger) Log(level, message string, metadata map[string]any) {}

// ConsoleLogger writes log lines via the standard library logger.
type ConsoleLogger struct {
	logger *log.Logger
}

// NewConsoleLogger creates a logger backed by the given *log.Logger. A nil
// argument uses the process-default logger.
func NewConsoleLogger(l *log.Logger) *ConsoleLogger {
	if l == nil {
		l = log.Default()
	}
	return &ConsoleLogger{logger: l}
}

// Log implements the Logger interface.
func (c *ConsoleLogger) Log(level, message string, metadata map[string]any) {
	if len(metadata) == 0 {
		c.logger.Printf("[%s] %s", level, message)
		return
	}
	c.logger.Printf("[%s] %s %v", level, message, metadata)
}
