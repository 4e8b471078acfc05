package handler

import (
	"go.uber.org/multierr"

	"github.com/philipp01105/ulog/core"
	"github.com/philipp01105/ulog/formatter"
)

// Dispatcher routes a finished record to the console and file sinks
// under independent thresholds and applies the flush policy to the file
// sink. It is not safe for concurrent use: every method must be called
// with the owning logger's primary lock held.
type Dispatcher struct {
	console          Sink
	file             *FileSink
	clock            *core.TimestampCache
	consoleThreshold core.Severity
	fileThreshold    core.Severity
	policy           FlushPolicy
	line             []byte
	stats            *Stats
}

// DispatcherConfig holds configuration for the dispatcher
type DispatcherConfig struct {
	// Console sink (default: colorless stdout sink). Use a sink wrapping
	// io.Discard to mute the console.
	Console Sink
	// File sink (default: closed FileSink with default config)
	File *FileSink
	// Clock formats the line prefix (default: cache with date)
	Clock            *core.TimestampCache
	ConsoleThreshold core.Severity
	FileThreshold    core.Severity
	FlushPolicy      FlushPolicy
	// LineCapacity pre-sizes the line scratch (default: DefaultCapacity+128)
	LineCapacity int
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Console == nil {
		cfg.Console = NewConsoleSink(ConsoleConfig{Colors: ColorNever})
	}
	if cfg.File == nil {
		cfg.File = NewFileSink(FileConfig{})
	}
	if cfg.Clock == nil {
		cfg.Clock = core.NewTimestampCache(true)
	}
	if cfg.LineCapacity <= 0 {
		cfg.LineCapacity = formatter.DefaultCapacity + 128
	}
	return &Dispatcher{
		console:          cfg.Console,
		file:             cfg.File,
		clock:            cfg.Clock,
		consoleThreshold: cfg.ConsoleThreshold,
		fileThreshold:    cfg.FileThreshold,
		policy:           cfg.FlushPolicy,
		line:             make([]byte, 0, cfg.LineCapacity),
		stats:            NewStats(),
	}
}

// Dispatch emits the record held in buf to every qualifying sink and
// resets buf. The line is built at most once and only when at least one
// sink will receive it.
func (d *Dispatcher) Dispatch(buf *formatter.Buffer) {
	sev := buf.Severity()
	toConsole := sev >= d.consoleThreshold
	toFile := d.file.IsOpen() && sev >= d.fileThreshold

	if !toConsole && !toFile {
		d.stats.IncrementSkipped()
		buf.Reset()
		return
	}
	if buf.Truncated() {
		d.stats.IncrementTruncated()
	}

	d.line = formatter.AppendLine(d.line[:0], d.clock.Get(), buf)

	if toConsole {
		if err := d.console.WriteLine(sev, d.line); err != nil {
			d.stats.IncrementWriteErrors()
		} else {
			d.stats.IncrementConsoleLines()
		}
	}

	if toFile {
		if err := d.file.WriteLine(sev, d.line); err != nil {
			d.stats.IncrementWriteErrors()
		} else {
			d.stats.IncrementFileLines()
		}
		if d.policy.ShouldFlush(sev) {
			d.flushFile()
		}
	}

	buf.Reset()
}

func (d *Dispatcher) flushFile() error {
	if !d.file.IsOpen() {
		return nil
	}
	err := d.file.Flush()
	if err != nil {
		d.stats.IncrementWriteErrors()
	} else {
		d.stats.IncrementFileFlushes()
	}
	return err
}

// Flush flushes the file sink and the console sink. The console is
// flushed even when the file flush fails.
func (d *Dispatcher) Flush() error {
	return multierr.Combine(d.flushFile(), d.console.Flush())
}

// EnableFile opens the file sink. Failures are counted and returned; the
// sink stays closed and the console keeps working.
func (d *Dispatcher) EnableFile(filename string) error {
	err := d.file.Enable(filename)
	if err != nil {
		d.stats.IncrementOpenFailures()
	}
	return err
}

// DisableFile flushes and closes the file sink
func (d *Dispatcher) DisableFile() error {
	return d.file.Disable()
}

// FileEnabled reports whether the file sink is open
func (d *Dispatcher) FileEnabled() bool { return d.file.IsOpen() }

// FileSink returns the file sink
func (d *Dispatcher) FileSink() *FileSink { return d.file }

// Clock returns the timestamp cache used for line prefixes
func (d *Dispatcher) Clock() *core.TimestampCache { return d.clock }

// SetConsoleThreshold sets the minimum severity written to the console
func (d *Dispatcher) SetConsoleThreshold(s core.Severity) { d.consoleThreshold = s }

// SetFileThreshold sets the minimum severity written to the file
func (d *Dispatcher) SetFileThreshold(s core.Severity) { d.fileThreshold = s }

// SetFlushPolicy sets when the file sink is flushed
func (d *Dispatcher) SetFlushPolicy(p FlushPolicy) { d.policy = p }

// ConsoleThreshold returns the console's minimum severity
func (d *Dispatcher) ConsoleThreshold() core.Severity { return d.consoleThreshold }

// FileThreshold returns the file's minimum severity
func (d *Dispatcher) FileThreshold() core.Severity { return d.fileThreshold }

// FlushPolicy returns the file flush policy
func (d *Dispatcher) FlushPolicy() FlushPolicy { return d.policy }

// Stats returns a snapshot of the current statistics
func (d *Dispatcher) Stats() Snapshot {
	return d.stats.GetSnapshot()
}
