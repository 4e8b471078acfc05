package handler

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/philipp01105/ulog/core"
)

// FlushPolicy defines when the file sink is flushed after a write
type FlushPolicy int

const (
	// FlushAlways flushes after every file write
	FlushAlways FlushPolicy = iota
	// FlushErrorAndAbove flushes only after Error, Fatal and Fixed records
	FlushErrorAndAbove
	// FlushNever leaves flushing to an explicit Flush or to teardown
	FlushNever
)

// DefaultFlushPolicy is the policy of a newly created logger
const DefaultFlushPolicy = FlushErrorAndAbove

// String returns the string representation of the policy
func (p FlushPolicy) String() string {
	switch p {
	case FlushAlways:
		return "always"
	case FlushErrorAndAbove:
		return "error_and_above"
	case FlushNever:
		return "never"
	default:
		return "unknown"
	}
}

// ShouldFlush reports whether a file write of a record with the given
// severity must be followed by a flush.
func (p FlushPolicy) ShouldFlush(sev core.Severity) bool {
	switch p {
	case FlushErrorAndAbove:
		return sev >= core.Error
	case FlushNever:
		return false
	default:
		return true
	}
}

// ParseFlushPolicy converts a policy name to a FlushPolicy
func ParseFlushPolicy(s string) (FlushPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return FlushAlways, nil
	case "error_and_above", "error-and-above", "error":
		return FlushErrorAndAbove, nil
	case "never":
		return FlushNever, nil
	default:
		return DefaultFlushPolicy, fmt.Errorf("unknown flush policy %q", s)
	}
}

// Stats tracks dispatcher statistics
type Stats struct {
	ConsoleLines uint64
	FileLines    uint64
	// FileFlushes counts flushes of the file sink, automatic or explicit
	FileFlushes uint64
	// Truncated counts dispatched records that had overflowed the buffer
	Truncated uint64
	// Skipped counts records below every active threshold
	Skipped      uint64
	OpenFailures uint64
	WriteErrors  uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementConsoleLines counts a line written to the console
func (s *Stats) IncrementConsoleLines() { atomic.AddUint64(&s.ConsoleLines, 1) }

// IncrementFileLines counts a line written to the file
func (s *Stats) IncrementFileLines() { atomic.AddUint64(&s.FileLines, 1) }

// IncrementFileFlushes counts a successful file flush
func (s *Stats) IncrementFileFlushes() { atomic.AddUint64(&s.FileFlushes, 1) }

// IncrementTruncated counts a record that overflowed its buffer
func (s *Stats) IncrementTruncated() { atomic.AddUint64(&s.Truncated, 1) }

// IncrementSkipped counts a record below every threshold
func (s *Stats) IncrementSkipped() { atomic.AddUint64(&s.Skipped, 1) }

// IncrementOpenFailures counts a failed file open
func (s *Stats) IncrementOpenFailures() { atomic.AddUint64(&s.OpenFailures, 1) }

// IncrementWriteErrors counts a failed file write or flush
func (s *Stats) IncrementWriteErrors() { atomic.AddUint64(&s.WriteErrors, 1) }

// Reset resets all counters to zero
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.ConsoleLines, 0)
	atomic.StoreUint64(&s.FileLines, 0)
	atomic.StoreUint64(&s.FileFlushes, 0)
	atomic.StoreUint64(&s.Truncated, 0)
	atomic.StoreUint64(&s.Skipped, 0)
	atomic.StoreUint64(&s.OpenFailures, 0)
	atomic.StoreUint64(&s.WriteErrors, 0)
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	ConsoleLines uint64
	FileLines    uint64
	FileFlushes  uint64
	Truncated    uint64
	Skipped      uint64
	OpenFailures uint64
	WriteErrors  uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		ConsoleLines: atomic.LoadUint64(&s.ConsoleLines),
		FileLines:    atomic.LoadUint64(&s.FileLines),
		FileFlushes:  atomic.LoadUint64(&s.FileFlushes),
		Truncated:    atomic.LoadUint64(&s.Truncated),
		Skipped:      atomic.LoadUint64(&s.Skipped),
		OpenFailures: atomic.LoadUint64(&s.OpenFailures),
		WriteErrors:  atomic.LoadUint64(&s.WriteErrors),
	}
}
