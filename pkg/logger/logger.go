// Package logger provides structured logging utilities.
//
// The package keeps a single process-wide zap logger and exposes simple
// printf-style helpers so call sites stay short.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Initialize builds the process logger.
// Development mode switches to the human-readable console encoder with caller info.
func Initialize(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	sugar = l.Sugar()
	return nil
}

// Use replaces the process logger, mainly for tests that want to observe output.
func Use(l *zap.Logger) {
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Debug logs debug messages.
func Debug(message string, args ...any) {
	sugar.Debugf(message, args...)
}

// Info logs informational messages.
func Info(message string, args ...any) {
	sugar.Infof(message, args...)
}

// Warn logs warnings.
func Warn(message string, args ...any) {
	sugar.Warnf(message, args...)
}

// Error logs error messages.
func Error(message string, args ...any) {
	sugar.Errorf(message, args...)
}

// Fatal logs fatal messages and terminates the program.
func Fatal(message string, args ...any) {
	sugar.Errorf(message, args...)
	_ = sugar.Sync()
	os.Exit(1)
}

// With returns a child logger carrying the given key/value pairs.
func With(keysAndValues ...any) *zap.SugaredLogger {
	return sugar.With(keysAndValues...)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = sugar.Sync()
}
