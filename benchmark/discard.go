// Package benchmark compares ulog against other Go logging libraries
// under identical output conditions.
package benchmark

import (
	"sync/atomic"
)

// countingWriter discards its input and counts the bytes written, so
// every library pays for producing its output but not for I/O.
type countingWriter struct {
	n atomic.Int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n.Add(int64(len(p)))
	return len(p), nil
}

