// internal/logging/logging.go

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// The dashboard owns the terminal, so logs go to a file under the user's
// state directory. Before Init is called (or if it fails) logging is a no-op.

var defaultLogger *slog.Logger

// DefaultLogPath returns ~/.local/state/sshdock/sshdock.log.
func DefaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "state", "sshdock", "sshdock.log"), nil
}

// Init opens the log file and installs the default logger. Returns a closer
// for the underlying file.
func Init(path string, level slog.Level) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defaultLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(defaultLogger)
	return f, nil
}

func logAttrs(level slog.Level, subsystem, msg string, err error) {
	if defaultLogger == nil {
		return
	}
	attrs := []any{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	defaultLogger.Log(context.Background(), level, msg, attrs...)
}

// Debug logs a debug message for a subsystem.
func Debug(subsystem, format string, args ...interface{}) {
	logAttrs(slog.LevelDebug, subsystem, fmt.Sprintf(format, args...), nil)
}

// Info logs an informational message for a subsystem.
func Info(subsystem, format string, args ...interface{}) {
	logAttrs(slog.LevelInfo, subsystem, fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning for a subsystem.
func Warn(subsystem, format string, args ...interface{}) {
	logAttrs(slog.LevelWarn, subsystem, fmt.Sprintf(format, args...), nil)
}

// Error logs an error for a subsystem.
func Error(subsystem string, err error, format string, args ...interface{}) {
	logAttrs(slog.LevelError, subsystem, fmt.Sprintf(format, args...), err)
}
