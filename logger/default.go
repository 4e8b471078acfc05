package logger

import (
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/philipp01105/ulog/core"
)

// current holds one reference to the process-wide logger
var current atomic.Pointer[Logger]

func init() {
	// Console only, every severity, date on; usable before any setup call
	current.Store(NewBuilder().Build())
}

// Default returns the process-wide logger without adding a reference.
// The result is valid as long as it stays installed; holders that outlive
// a SetDefault call should use Acquire instead.
func Default() *Logger {
	return current.Load()
}

// Acquire returns the process-wide logger with an added reference. The
// caller must call Release when done.
func Acquire() *Logger {
	for {
		l := current.Load()
		if l.tryRetain() {
			return l
		}
	}
}

// SetDefault atomically installs l as the process-wide logger. The
// global's reference to the previous logger is released, so it is torn
// down only if nothing else holds it. l is retained; the caller keeps
// its own reference.
func SetDefault(l *Logger) error {
	if l == nil {
		return nil
	}
	l.Retain()
	old := current.Swap(l)
	if old == nil {
		return nil
	}
	return old.Release()
}

// Install hands the caller's reference on l to the process-wide handle.
// It is what a collaborator calls with a logger it received through
// InjectLogger.
func Install(l *Logger) error {
	if l == nil {
		return nil
	}
	err := SetDefault(l)
	return multierr.Append(err, l.Release())
}

// Package-level convenience functions using the default logger

// Begin starts a record on the default logger
func Begin(sev core.Severity) Record {
	return Default().Begin(sev)
}

// Print builds one record on the default logger
func Print(sev core.Severity, fn func(r Record)) {
	Default().Print(sev, fn)
}

// Log emits tokens on the default logger
func Log(sev core.Severity, tokens ...core.Token) {
	Default().Log(sev, tokens...)
}

// Printv emits values on the default logger
func Printv(sev core.Severity, values ...any) {
	Default().Printv(sev, values...)
}

// Verbose logs a verbose record using the default logger
func Verbose(values ...any) { Default().Printv(core.Verbose, values...) }

// Debug logs a debug record using the default logger
func Debug(values ...any) { Default().Printv(core.Debug, values...) }

// Info logs an info record using the default logger
func Info(values ...any) { Default().Printv(core.Info, values...) }

// Warning logs a warning record using the default logger
func Warning(values ...any) { Default().Printv(core.Warning, values...) }

// Error logs an error record using the default logger
func Error(values ...any) { Default().Printv(core.Error, values...) }

// Fatal logs a fatal record using the default logger. It does not exit.
func Fatal(values ...any) { Default().Printv(core.Fatal, values...) }

// Fixed logs a fixed record using the default logger
func Fixed(values ...any) { Default().Printv(core.Fixed, values...) }

// Init configures the default logger
func Init(cfg Config) { Default().Init(cfg) }

// InitExt configures the default logger and its flush policy
func InitExt(cfg Config, policy FlushPolicy) { Default().InitExt(cfg, policy) }

// Deinit flushes and closes the default logger's file sink
func Deinit() error { return Default().Deinit() }

// Flush flushes the default logger
func Flush() error { return Default().Flush() }

// EnableFileLogging opens the default logger's file sink
func EnableFileLogging(filename string) error {
	return Default().EnableFileLogging(filename)
}

// DisableFileLogging closes the default logger's file sink
func DisableFileLogging() error {
	return Default().DisableFileLogging()
}
