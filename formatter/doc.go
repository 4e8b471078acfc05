// Package formatter turns typed values into the text of a log record.
//
// A Buffer is a fixed-capacity byte slice allocated once per logger and
// reused for every record. Each Append method writes one token, separated
// from the previous one by a single space, using strconv's Append
// functions so that no intermediate strings are created.
//
// The buffer never grows. Text is clamped to whatever space remains
// (never splitting a UTF-8 sequence). Numbers, booleans, pointers and
// hex values reserve the worst-case width of their Go type and are
// dropped whole when that reservation does not fit, so a half-written
// number can never appear. Either case marks the record truncated, and
// AppendLine adds a visible [TRUNCATED] marker to the finished line.
//
// AppendLine assembles the final line from a timestamp prefix, the
// padded severity label and the buffer contents in a single pass into
// a caller-owned scratch slice.
package formatter
