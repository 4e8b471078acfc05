package logger

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/ulog/core"
	"github.com/philipp01105/ulog/formatter"
	"github.com/philipp01105/ulog/handler"
)

// ErrReleased is returned by Release when a logger is released more
// times than it was retained.
var ErrReleased = errors.New("logger: released more times than retained")

// Logger holds all state of one logging instance: the record buffer,
// the thresholds and flush policy, the console and file sinks and the
// timestamp cache. Every mutation happens under its primary lock, which
// is held for the whole append-and-dispatch sequence of one record.
//
// A Logger is shared by pointer and reference counted. It starts with
// one reference; Retain adds one and Release drops one. Releasing the
// last reference flushes and closes the file sink.
type Logger struct {
	mu         sync.Mutex
	buf        *formatter.Buffer
	dispatcher *handler.Dispatcher
	console    *handler.ConsoleSink
	clock      *core.TimestampCache
	seq        atomic.Uint64
	refs       atomic.Int32
}

// Config is the initialization set applied by Init
type Config struct {
	ConsoleThreshold core.Severity
	FileThreshold    core.Severity
	EnableFile       bool
	EnableColors     bool
	IncludeDate      bool
	// FileName overrides the derived log_<date>_<time>.txt name
	FileName string
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	console          io.Writer
	colors           handler.ColorMode
	capacity         int
	now              func() time.Time
	consoleThreshold core.Severity
	fileThreshold    core.Severity
	policy           handler.FlushPolicy
	includeDate      bool
	fileBufferSize   int
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		capacity:         formatter.DefaultCapacity,
		consoleThreshold: core.Verbose,
		fileThreshold:    core.Verbose,
		policy:           handler.DefaultFlushPolicy,
		includeDate:      true,
	}
}

// WithConsole sets the console writer (default: os.Stdout)
func (b *Builder) WithConsole(w io.Writer) *Builder {
	b.console = w
	return b
}

// WithColorMode sets how console colors are chosen (default: ColorAuto)
func (b *Builder) WithColorMode(m handler.ColorMode) *Builder {
	b.colors = m
	return b
}

// WithCapacity sets the record buffer capacity in bytes
func (b *Builder) WithCapacity(n int) *Builder {
	b.capacity = n
	return b
}

// WithClock replaces time.Now for timestamps and derived file names
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithThresholds sets the console and file thresholds
func (b *Builder) WithThresholds(console, file core.Severity) *Builder {
	b.consoleThreshold = console
	b.fileThreshold = file
	return b
}

// WithFlushPolicy sets the file flush policy
func (b *Builder) WithFlushPolicy(p handler.FlushPolicy) *Builder {
	b.policy = p
	return b
}

// WithIncludeDate sets whether timestamps carry the date
func (b *Builder) WithIncludeDate(enabled bool) *Builder {
	b.includeDate = enabled
	return b
}

// WithFileBufferSize sets the file sink's write buffer size
func (b *Builder) WithFileBufferSize(n int) *Builder {
	b.fileBufferSize = n
	return b
}

// Build creates the Logger instance holding one reference
func (b *Builder) Build() *Logger {
	if b.capacity <= 0 {
		b.capacity = formatter.DefaultCapacity
	}

	clock := core.NewTimestampCache(b.includeDate)
	if b.now != nil {
		clock.SetClock(b.now)
	}
	console := handler.NewConsoleSink(handler.ConsoleConfig{
		Writer: b.console,
		Colors: b.colors,
	})
	file := handler.NewFileSink(handler.FileConfig{
		BufferSize: b.fileBufferSize,
		Now:        b.now,
	})

	l := &Logger{
		buf: formatter.NewBuffer(b.capacity),
		dispatcher: handler.NewDispatcher(handler.DispatcherConfig{
			Console:          console,
			File:             file,
			Clock:            clock,
			ConsoleThreshold: b.consoleThreshold,
			FileThreshold:    b.fileThreshold,
			FlushPolicy:      b.policy,
			LineCapacity:     b.capacity + 128,
		}),
		console: console,
		clock:   clock,
	}
	l.refs.Store(1)
	return l
}

// New creates a Logger with default settings
func New() *Logger {
	return NewBuilder().Build()
}

// Begin locks the logger and starts a record at the given severity. The
// caller must finish it with Emit or Discard, which release the lock.
func (l *Logger) Begin(sev core.Severity) Record {
	l.mu.Lock()
	l.buf.SetSeverity(sev)
	return Record{
		l:    l,
		seq:  l.seq.Add(1),
		skip: !l.enabledLocked(sev),
	}
}

// Print builds one record under the lock: fn appends values to r, then
// the record is dispatched when fn returns. The lock is released on every
// exit path; if fn panics the record is discarded. Inside fn, Emit and
// Discard are no-ops; r becomes inert once Print returns.
func (l *Logger) Print(sev core.Severity, fn func(r Record)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.SetSeverity(sev)
	r := Record{
		l:      l,
		seq:    l.seq.Add(1),
		skip:   !l.enabledLocked(sev),
		scoped: true,
	}
	done := false
	defer func() {
		if !done {
			l.buf.Reset()
		}
		l.seq.Add(1)
	}()

	fn(r)
	l.dispatcher.Dispatch(l.buf)
	done = true
}

// Log emits one record made of the given tokens
func (l *Logger) Log(sev core.Severity, tokens ...core.Token) {
	r := l.Begin(sev)
	if r.active() {
		for _, t := range tokens {
			l.buf.AppendToken(t)
		}
	}
	r.Emit()
}

// Printv emits one record rendering each value by its dynamic type.
// Values are boxed into interfaces; use Begin or Log on hot paths.
func (l *Logger) Printv(sev core.Severity, values ...any) {
	r := l.Begin(sev)
	if r.active() {
		for _, v := range values {
			l.buf.Append(v)
		}
	}
	r.Emit()
}

// Verbose logs a verbose record
func (l *Logger) Verbose(values ...any) { l.Printv(core.Verbose, values...) }

// Debug logs a debug record
func (l *Logger) Debug(values ...any) { l.Printv(core.Debug, values...) }

// Info logs an info record
func (l *Logger) Info(values ...any) { l.Printv(core.Info, values...) }

// Warning logs a warning record
func (l *Logger) Warning(values ...any) { l.Printv(core.Warning, values...) }

// Error logs an error record
func (l *Logger) Error(values ...any) { l.Printv(core.Error, values...) }

// Fatal logs a fatal record. It does not exit the process.
func (l *Logger) Fatal(values ...any) { l.Printv(core.Fatal, values...) }

// Fixed logs a fixed record
func (l *Logger) Fixed(values ...any) { l.Printv(core.Fixed, values...) }

// Enabled reports whether a record of the given severity would reach any sink
func (l *Logger) Enabled(sev core.Severity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabledLocked(sev)
}

func (l *Logger) enabledLocked(sev core.Severity) bool {
	d := l.dispatcher
	return sev >= d.ConsoleThreshold() || (d.FileEnabled() && sev >= d.FileThreshold())
}

// Init applies cfg. A file that cannot be opened leaves file logging
// disabled; the console keeps working and Stats counts the failure.
func (l *Logger) Init(cfg Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initLocked(cfg)
}

// InitExt applies cfg and the flush policy
func (l *Logger) InitExt(cfg Config, policy handler.FlushPolicy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initLocked(cfg)
	l.dispatcher.SetFlushPolicy(policy)
}

func (l *Logger) initLocked(cfg Config) {
	l.dispatcher.SetConsoleThreshold(cfg.ConsoleThreshold)
	l.dispatcher.SetFileThreshold(cfg.FileThreshold)
	l.console.SetColors(cfg.EnableColors)
	l.clock.SetIncludeDate(cfg.IncludeDate)
	if cfg.EnableFile {
		_ = l.dispatcher.EnableFile(cfg.FileName)
	} else {
		_ = l.dispatcher.DisableFile()
	}
}

// Deinit flushes pending output and closes the file sink
func (l *Logger) Deinit() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return multierr.Combine(
		l.dispatcher.Flush(),
		l.dispatcher.DisableFile(),
	)
}

// Flush flushes the file sink and the console writer
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatcher.Flush()
}

// EnableFileLogging opens the file sink. An empty name derives
// log_<YYYYMMDD>_<HHMMSS>.txt from the current time. It is a no-op when
// the sink is already open.
func (l *Logger) EnableFileLogging(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatcher.EnableFile(filename)
}

// DisableFileLogging flushes and closes the file sink. It is a no-op
// when the sink is closed.
func (l *Logger) DisableFileLogging() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatcher.DisableFile()
}

// FileLoggingEnabled reports whether the file sink is open
func (l *Logger) FileLoggingEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatcher.FileEnabled()
}

// FileName returns the name of the current or last opened log file
func (l *Logger) FileName() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatcher.FileSink().Filename()
}

// SetConsoleThreshold sets the minimum severity written to the console
func (l *Logger) SetConsoleThreshold(sev core.Severity) {
	l.mu.Lock()
	l.dispatcher.SetConsoleThreshold(sev)
	l.mu.Unlock()
}

// SetFileThreshold sets the minimum severity written to the file
func (l *Logger) SetFileThreshold(sev core.Severity) {
	l.mu.Lock()
	l.dispatcher.SetFileThreshold(sev)
	l.mu.Unlock()
}

// SetFlushPolicy sets the file flush policy
func (l *Logger) SetFlushPolicy(p handler.FlushPolicy) {
	l.mu.Lock()
	l.dispatcher.SetFlushPolicy(p)
	l.mu.Unlock()
}

// SetColors enables or disables console colors
func (l *Logger) SetColors(enabled bool) {
	l.mu.Lock()
	l.console.SetColors(enabled)
	l.mu.Unlock()
}

// Colors reports whether console lines are wrapped in color escapes
func (l *Logger) Colors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.console.Colors()
}

// IncludeDate reports whether timestamps carry the date
func (l *Logger) IncludeDate() bool {
	return l.clock.IncludeDate()
}

// SetIncludeDate sets whether timestamps carry the date
func (l *Logger) SetIncludeDate(enabled bool) {
	l.clock.SetIncludeDate(enabled)
}

// Thresholds returns the console and file thresholds
func (l *Logger) Thresholds() (console, file core.Severity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatcher.ConsoleThreshold(), l.dispatcher.FileThreshold()
}

// FlushPolicy returns the file flush policy
func (l *Logger) FlushPolicy() handler.FlushPolicy {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatcher.FlushPolicy()
}

// Stats returns a snapshot of the dispatcher statistics
func (l *Logger) Stats() handler.Snapshot {
	return l.dispatcher.Stats()
}

// Retain adds a reference and returns l
func (l *Logger) Retain() *Logger {
	l.refs.Add(1)
	return l
}

// tryRetain adds a reference unless the logger was already destroyed
func (l *Logger) tryRetain() bool {
	for {
		n := l.refs.Load()
		if n <= 0 {
			return false
		}
		if l.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release drops a reference. Dropping the last one flushes and closes
// the file sink; the logger keeps working console-only afterwards.
func (l *Logger) Release() error {
	n := l.refs.Add(-1)
	switch {
	case n == 0:
		return l.Deinit()
	case n < 0:
		l.refs.Add(1)
		return ErrReleased
	default:
		return nil
	}
}

// Refs returns the current reference count
func (l *Logger) Refs() int {
	return int(l.refs.Load())
}
