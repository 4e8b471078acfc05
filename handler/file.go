package handler

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/ulog/core"
)

const (
	// DefaultFileBufferSize is the size of the write buffer in front of
	// the log file.
	DefaultFileBufferSize = 8192

	fileNameLayout = "20060102_150405"
)

// FileSink appends log lines to a file. It is either closed or open;
// Enable and Disable move between the two states and are no-ops when
// the sink is already in the target state.
//
// FileSink is not safe for concurrent use. The logger serializes access
// with its primary lock.
type FileSink struct {
	filename   string
	file       *os.File
	writer     *bufio.Writer
	bufferSize int
	now        func() time.Time
}

// FileConfig holds configuration for the file sink
type FileConfig struct {
	// BufferSize is the write buffer size (default: DefaultFileBufferSize)
	BufferSize int
	// Now is used to derive default file names (default: time.Now)
	Now func() time.Time
}

// NewFileSink creates a closed file sink
func NewFileSink(cfg FileConfig) *FileSink {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultFileBufferSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &FileSink{
		bufferSize: cfg.BufferSize,
		now:        cfg.Now,
	}
}

// DefaultFileName returns log_<YYYYMMDD>_<HHMMSS>.txt for t in local time
func DefaultFileName(t time.Time) string {
	return "log_" + t.Local().Format(fileNameLayout) + ".txt"
}

// Enable opens filename in append mode, creating it if needed. An empty
// filename is replaced by DefaultFileName of the current time. Enabling
// an open sink does nothing. On failure the sink stays closed.
func (s *FileSink) Enable(filename string) error {
	if s.file != nil {
		return nil
	}
	if filename == "" {
		filename = DefaultFileName(s.now())
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	s.filename = filename
	s.file = file
	if s.writer == nil {
		s.writer = bufio.NewWriterSize(file, s.bufferSize)
	} else {
		s.writer.Reset(file)
	}
	return nil
}

// Disable flushes and closes the file. Disabling a closed sink does
// nothing.
func (s *FileSink) Disable() error {
	if s.file == nil {
		return nil
	}
	err := multierr.Combine(
		s.writer.Flush(),
		s.file.Sync(),
		s.file.Close(),
	)
	s.file = nil
	return err
}

// IsOpen reports whether the sink has an open file
func (s *FileSink) IsOpen() bool {
	return s.file != nil
}

// Filename returns the name of the open file, or the last one opened
func (s *FileSink) Filename() string {
	return s.filename
}

// WriteLine buffers one line. It does not flush.
func (s *FileSink) WriteLine(_ core.Severity, line []byte) error {
	if s.file == nil {
		return nil
	}
	_, err := s.writer.Write(line)
	return err
}

// Flush hands buffered lines to the operating system
func (s *FileSink) Flush() error {
	if s.file == nil {
		return nil
	}
	return s.writer.Flush()
}

// Buffered returns the number of bytes written but not yet flushed
func (s *FileSink) Buffered() int {
	if s.writer == nil {
		return 0
	}
	return s.writer.Buffered()
}
