// Package logger is the public API of ulog. Most users only need to
// import this package.
//
// A Logger owns one bounded record buffer, the console and file sinks and
// their thresholds. Every record is built and dispatched under the
// logger's lock, so lines from concurrent goroutines never interleave and
// a log call allocates nothing on the typed paths.
//
// The package installs a default Logger (console only, every severity,
// colors when stdout is a terminal) in init(). The package-level
// functions delegate to it, so simple programs can log without any
// setup:
//
//	logger.Info("ready", 8080)
//
// Records are built from typed fragments with Begin and Emit, or with the
// scoped Print form which releases the lock on every exit path:
//
//	log.Begin(logger.WarningLevel).Str("disk").Int(87).Str("percent").Emit()
//
//	log.Print(logger.InfoLevel, func(r logger.Record) {
//	    r.Str("cache").Str("hit").Uint64(key)
//	})
//
// Log takes tagged tokens and Printv takes arbitrary values rendered by
// their dynamic type.
//
// Loggers are reference counted. SetDefault swaps the process-wide
// instance atomically; the previous one is closed only when its last
// holder calls Release. Collaborators such as plugins implement
// Injectable and receive their own reference through Inject.
//
// NewSlogHandler and NewZapCore route log/slog and zap calls into the
// same sinks.
package logger
