package formatter

import (
	"github.com/philipp01105/ulog/core"
)

const (
	labelSep      = " | "
	truncatedMark = " [TRUNCATED]"
)

// TruncatedMarker is appended to lines whose record was truncated.
const TruncatedMarker = "[TRUNCATED]"

// LineLen returns the exact length AppendLine will add for buf
func LineLen(prefix string, buf *Buffer) int {
	n := len(prefix) + core.LabelWidth + len(labelSep) + buf.Len() + 1
	if buf.Truncated() {
		n += len(truncatedMark)
	}
	return n
}

// AppendLine appends one finished log line to dst:
//
//	<prefix><label> | <tokens>[ [TRUNCATED]]\n
//
// prefix is the timestamp prefix from core.TimestampCache and already
// ends with its own separator.
func AppendLine(dst []byte, prefix string, buf *Buffer) []byte {
	dst = append(dst, prefix...)
	dst = append(dst, buf.Severity().Label()...)
	dst = append(dst, labelSep...)
	dst = append(dst, buf.Bytes()...)
	if buf.Truncated() {
		dst = append(dst, truncatedMark...)
	}
	return append(dst, '\n')
}

// AppendColored wraps a finished line in the severity's color escape
// followed by the reset escape.
func AppendColored(dst []byte, sev core.Severity, line []byte) []byte {
	dst = append(dst, sev.Color()...)
	dst = append(dst, line...)
	return append(dst, core.ColorReset...)
}
