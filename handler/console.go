package handler

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/philipp01105/ulog/core"
	"github.com/philipp01105/ulog/formatter"
)

// ColorMode selects whether console lines are wrapped in color escapes
type ColorMode int

const (
	// ColorAuto enables colors when the writer is a terminal
	ColorAuto ColorMode = iota
	// ColorAlways always wraps lines in color escapes
	ColorAlways
	// ColorNever writes plain lines
	ColorNever
)

// ConsoleSink writes log lines to stdout or any io.Writer
type ConsoleSink struct {
	writer  io.Writer
	flusher flusher
	colors  bool
	scratch []byte
}

// ConsoleConfig holds configuration for the console sink
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Colors selects color handling (default: ColorAuto)
	Colors ColorMode
}

// NewConsoleSink creates a new console sink
func NewConsoleSink(cfg ConsoleConfig) *ConsoleSink {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	s := &ConsoleSink{
		writer:  cfg.Writer,
		scratch: make([]byte, 0, formatter.DefaultCapacity+128),
	}
	// Cache the flusher so the write path avoids an interface assertion
	s.flusher, _ = cfg.Writer.(flusher)

	switch cfg.Colors {
	case ColorAlways:
		s.colors = true
	case ColorNever:
		s.colors = false
	default:
		s.colors = IsTerminal(cfg.Writer)
	}
	return s
}

// IsTerminal reports whether w is a file attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColors enables or disables color escapes
func (s *ConsoleSink) SetColors(enabled bool) {
	s.colors = enabled
}

// Colors reports whether color escapes are written
func (s *ConsoleSink) Colors() bool {
	return s.colors
}

// WriteLine writes the line, colored if enabled, then flushes so console
// output keeps emission order.
func (s *ConsoleSink) WriteLine(sev core.Severity, line []byte) error {
	out := line
	if s.colors {
		s.scratch = formatter.AppendColored(s.scratch[:0], sev, line)
		out = s.scratch
	}
	if _, err := s.writer.Write(out); err != nil {
		return err
	}
	return s.Flush()
}

// Flush flushes the writer if it buffers
func (s *ConsoleSink) Flush() error {
	if s.flusher != nil {
		return s.flusher.Flush()
	}
	return nil
}
