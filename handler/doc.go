// Package handler routes finished log lines to their sinks.
//
// The Dispatcher owns two sinks: a ConsoleSink writing to stdout (or
// any io.Writer) and a FileSink appending to a log file. Each has its
// own severity threshold. For every record the dispatcher checks both
// thresholds first; a record neither sink wants is discarded before a
// line is built. Otherwise the line is assembled once, written to each
// qualifying sink, and the record buffer is reset.
//
// Console output is flushed after every line. File output goes through
// a bufio.Writer and is flushed according to the FlushPolicy:
//
//   - FlushAlways flushes after every line.
//   - FlushErrorAndAbove flushes after Error, Fatal and Fixed records.
//   - FlushNever only flushes on an explicit Flush or when the file is
//     disabled.
//
// The FileSink is a two-state machine. Enable on an open sink and
// Disable on a closed sink are no-ops. A file that cannot be opened
// leaves the sink closed; logging continues on the console.
//
// Nothing in this package locks. The logger that owns a Dispatcher
// holds its primary lock around every call. Stats counters are atomic
// and may be read at any time.
package handler
