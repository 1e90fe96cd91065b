// Package logger provides the application's logging. Internal messages go
// to a structured log (a file when configured, since hooks usually run
// without a terminal); user-facing messages also go to stdout.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Logger is the logging interface used throughout autoclock.
type Logger interface {
	// Info logs a message to the structured log only.
	Info(format string, args ...any)
	// Warning logs a warning; it is echoed to stderr in verbose mode.
	Warning(format string, args ...any)
	// Error logs an error and always echoes it to stderr.
	Error(format string, args ...any)

	// InfoToUser logs a message and prints it to stdout.
	InfoToUser(format string, args ...any)
	// WarningToUser logs a warning and prints it to stdout.
	WarningToUser(format string, args ...any)
	// Success logs a message and prints it to stdout with a check mark.
	Success(format string, args ...any)

	// Close flushes and closes the log file, if any.
	Close() error
}

// Options configures a DefaultLogger.
type Options struct {
	// File is the log file path. Empty disables the file; structured
	// messages then go to stderr in verbose mode only.
	File    string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// DefaultLogger implements Logger on top of log/slog.
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	enabled bool
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
	runID   string
}

// New creates a DefaultLogger. Every structured record carries a "run"
// attribute identifying this invocation.
func New(opts Options) *DefaultLogger {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	l := &DefaultLogger{
		verbose: opts.Verbose,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		runID:   uuid.NewString(),
	}

	handlerOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err == nil {
			l.file = f
			l.enabled = true
			handler = slog.NewTextHandler(f, handlerOpts)
		} else {
			_, _ = fmt.Fprintf(opts.Stderr, "Warning: could not open log file %s: %v\n", opts.File, err)
		}
	}
	if handler == nil {
		l.enabled = opts.Verbose
		handler = slog.NewTextHandler(opts.Stderr, handlerOpts)
	}
	l.logger = slog.New(handler).With("run", l.runID)
	return l
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}

// RunID returns the identifier attached to this invocation's records.
func (l *DefaultLogger) RunID() string {
	return l.runID
}

// Info implements Logger.
func (l *DefaultLogger) Info(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.enabled {
		l.logger.Info(fmt.Sprintf(format, args...))
	}
}

// Warning implements Logger.
func (l *DefaultLogger) Warning(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Warn(msg)
	}
	if l.verbose && l.file != nil {
		_, _ = fmt.Fprintf(l.stderr, "Warning: %s\n", msg)
	}
}

// Error implements Logger.
func (l *DefaultLogger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.file != nil {
		l.logger.Error(msg)
	}
	_, _ = fmt.Fprintf(l.stderr, "Error: %s\n", msg)
}

// InfoToUser implements Logger.
func (l *DefaultLogger) InfoToUser(format string, args ...any) {
	l.toUser(slog.LevelInfo, "", format, args...)
}

// WarningToUser implements Logger.
func (l *DefaultLogger) WarningToUser(format string, args ...any) {
	l.toUser(slog.LevelWarn, "Warning: ", format, args...)
}

// Success implements Logger.
func (l *DefaultLogger) Success(format string, args ...any) {
	l.toUser(slog.LevelInfo, "✓ ", format, args...)
}

func (l *DefaultLogger) toUser(level slog.Level, prefix, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.file != nil {
		l.logger.Log(context.Background(), level, msg)
	}
	_, _ = fmt.Fprintf(l.stdout, "%s%s\n", prefix, msg)
}

// Close implements Logger.
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		return err
	}
	err := l.file.Close()
	l.file = nil
	l.enabled = l.verbose
	return err
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return discard{}
}

type discard struct{}

func (discard) Info(string, ...any)          {}
func (discard) Warning(string, ...any)       {}
func (discard) Error(string, ...any)         {}
func (discard) InfoToUser(string, ...any)    {}
func (discard) WarningToUser(string, ...any) {}
func (discard) Success(string, ...any)       {}
func (discard) Close() error                 { return nil }
