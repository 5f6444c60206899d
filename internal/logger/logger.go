// Package logger provides leveled logging for the Thekla CLI.
//
// A Logger is created once per process and passed to every service and
// adapter that reports progress. It fans out to any number of sinks, each
// with its own threshold: the console prints Info by default, Debug with
// --debug and only errors with --quiet, while an optional log file keeps
// its own level. A nil *Logger discards everything.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is a log severity.
type Level int

// Log levels in increasing severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel parses DEBUG, INFO, WARNING (or WARN) and ERROR, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARNING", "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

type sink struct {
	w   io.Writer
	min Level
}

// Logger writes formatted lines to its sinks.
type Logger struct {
	mu      sync.Mutex
	sinks   []sink
	closers []io.Closer
}

// New creates a logger with a single sink.
func New(w io.Writer, min Level) *Logger {
	l := &Logger{}
	l.AddSink(w, min)
	return l
}

// NewConsole creates the console logger used by the CLI.
// Errors are always shown; quiet hides everything else.
func NewConsole(w io.Writer, quiet, debug bool) *Logger {
	min := LevelInfo
	switch {
	case quiet:
		min = LevelError
	case debug:
		min = LevelDebug
	}
	return New(w, min)
}

// Discard returns a logger without sinks.
func Discard() *Logger {
	return &Logger{}
}

// AddSink adds an output with its own threshold.
func (l *Logger) AddSink(w io.Writer, min Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sink{w: w, min: min})
}

// OpenFile appends log lines at min level and above to path.
// The file is closed by Close.
func (l *Logger) OpenFile(path string, min Level) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sink{w: f, min: min})
	l.closers = append(l.closers, f)
	return nil
}

// Close closes file sinks opened by OpenFile.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	closed := make(map[io.Writer]bool, len(l.closers))
	for _, c := range l.closers {
		if w, ok := c.(io.Writer); ok {
			closed[w] = true
		}
	}
	kept := l.sinks[:0]
	for _, s := range l.sinks {
		if !closed[s.w] {
			kept = append(kept, s)
		}
	}
	l.sinks = kept
	l.closers = nil
	return errors.Join(errs...)
}

// Enabled reports whether any sink accepts level.
func (l *Logger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sinks {
		if level >= s.min {
			return true
		}
	}
	return false
}

func (l *Logger) write(level Level, line string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sinks {
		if level >= s.min {
			_, _ = io.WriteString(s.w, line)
		}
	}
}

func (l *Logger) logf(level Level, format string, args ...any) {
	l.write(level, "["+level.String()+"] "+fmt.Sprintf(format, args...)+"\n")
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(format string, args ...any) {
	l.logf(LevelDebug, format, args...)
}

// Info logs a progress message.
func (l *Logger) Info(format string, args ...any) {
	l.logf(LevelInfo, format, args...)
}

// Warn logs a recoverable problem.
func (l *Logger) Warn(format string, args ...any) {
	l.logf(LevelWarn, format, args...)
}

// Error logs a failure.
func (l *Logger) Error(format string, args ...any) {
	l.logf(LevelError, format, args...)
}

// Section prints a section header at debug level.
func (l *Logger) Section(name string) {
	l.write(LevelDebug, fmt.Sprintf("\n=== %s ===\n", name))
}
