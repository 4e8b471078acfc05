package handler

import (
	"github.com/philipp01105/ulog/core"
)

// Sink is an output destination for finished log lines
type Sink interface {
	// WriteLine writes one complete line, including its trailing newline
	WriteLine(sev core.Severity, line []byte) error

	// Flush pushes buffered bytes to the underlying writer
	Flush() error
}

// flusher is implemented by buffered writers such as *bufio.Writer
type flusher interface {
	Flush() error
}
