package logger

import (
	"github.com/philipp01105/ulog/core"
)

// Record is a handle to one log event being built while the logger's
// lock is held. Obtain it from Logger.Begin and finish it with exactly
// one Emit or Discard. Each Begin stamps the handle with a fresh
// sequence number; a handle whose record was already finished is inert,
// so a stray Emit, Discard or append through it never touches a record
// another goroutine is building. Appends on a record below every active
// threshold are skipped.
//
//	log.Begin(logger.WarningLevel).Str("disk").Int(87).Str("percent").Emit()
type Record struct {
	l      *Logger
	seq    uint64
	skip   bool
	scoped bool
}

// current reports whether r still owns the logger's open record
func (r Record) current() bool {
	return r.l != nil && r.seq == r.l.seq.Load()
}

func (r Record) active() bool {
	return !r.skip && r.current()
}

// Enabled reports whether the record will reach at least one sink
func (r Record) Enabled() bool {
	return r.active()
}

// Emit dispatches the record and releases the logger's lock. It does
// nothing on a finished record.
func (r Record) Emit() {
	if r.scoped || !r.current() {
		return
	}
	l := r.l
	l.dispatcher.Dispatch(l.buf)
	l.seq.Add(1)
	l.mu.Unlock()
}

// Discard drops the record without output and releases the lock. It
// does nothing on a finished record.
func (r Record) Discard() {
	if r.scoped || !r.current() {
		return
	}
	l := r.l
	l.buf.Reset()
	l.seq.Add(1)
	l.mu.Unlock()
}

// Severity returns the record's severity
func (r Record) Severity() core.Severity {
	if !r.current() {
		return core.Info
	}
	return r.l.buf.Severity()
}

// Truncated reports whether the record has overflowed the buffer
func (r Record) Truncated() bool {
	return r.current() && r.l.buf.Truncated()
}

// Str appends text
func (r Record) Str(s string) Record {
	if r.active() {
		r.l.buf.AppendString(s)
	}
	return r
}

// Bytes appends text held in a byte slice
func (r Record) Bytes(p []byte) Record {
	if r.active() {
		r.l.buf.AppendBytes(p)
	}
	return r
}

// Err appends err.Error(). A nil error is not written.
func (r Record) Err(err error) Record {
	if err != nil && r.active() {
		r.l.buf.AppendString(err.Error())
	}
	return r
}

// Bool appends true or false
func (r Record) Bool(v bool) Record {
	if r.active() {
		r.l.buf.AppendBool(v)
	}
	return r
}

// Int appends v in decimal
func (r Record) Int(v int) Record {
	if r.active() {
		r.l.buf.AppendInt(v)
	}
	return r
}

// Int8 appends v in decimal
func (r Record) Int8(v int8) Record {
	if r.active() {
		r.l.buf.AppendInt8(v)
	}
	return r
}

// Int16 appends v in decimal
func (r Record) Int16(v int16) Record {
	if r.active() {
		r.l.buf.AppendInt16(v)
	}
	return r
}

// Int32 appends v in decimal
func (r Record) Int32(v int32) Record {
	if r.active() {
		r.l.buf.AppendInt32(v)
	}
	return r
}

// Int64 appends v in decimal
func (r Record) Int64(v int64) Record {
	if r.active() {
		r.l.buf.AppendInt64(v)
	}
	return r
}

// Uint appends v in decimal
func (r Record) Uint(v uint) Record {
	if r.active() {
		r.l.buf.AppendUint(v)
	}
	return r
}

// Uint8 appends v in decimal
func (r Record) Uint8(v uint8) Record {
	if r.active() {
		r.l.buf.AppendUint8(v)
	}
	return r
}

// Uint16 appends v in decimal
func (r Record) Uint16(v uint16) Record {
	if r.active() {
		r.l.buf.AppendUint16(v)
	}
	return r
}

// Uint32 appends v in decimal
func (r Record) Uint32(v uint32) Record {
	if r.active() {
		r.l.buf.AppendUint32(v)
	}
	return r
}

// Uint64 appends v in decimal
func (r Record) Uint64(v uint64) Record {
	if r.active() {
		r.l.buf.AppendUint64(v)
	}
	return r
}

// Uintptr appends v in decimal
func (r Record) Uintptr(v uintptr) Record {
	if r.active() {
		r.l.buf.AppendUintptr(v)
	}
	return r
}

// Float32 appends v with 8 decimals
func (r Record) Float32(v float32) Record {
	if r.active() {
		r.l.buf.AppendFloat32(v)
	}
	return r
}

// Float64 appends v with 8 decimals
func (r Record) Float64(v float64) Record {
	if r.active() {
		r.l.buf.AppendFloat64(v)
	}
	return r
}

// Ptr appends an address in 0x notation
func (r Record) Ptr(p uintptr) Record {
	if r.active() {
		r.l.buf.AppendPointer(p)
	}
	return r
}

// Rune appends a single character
func (r Record) Rune(c rune) Record {
	if r.active() {
		r.l.buf.AppendRune(c)
	}
	return r
}

// Hex8 appends v as 0x plus 2 uppercase hex digits
func (r Record) Hex8(v uint8) Record {
	if r.active() {
		r.l.buf.AppendHex8(v)
	}
	return r
}

// Hex16 appends v as 0x plus 4 uppercase hex digits
func (r Record) Hex16(v uint16) Record {
	if r.active() {
		r.l.buf.AppendHex16(v)
	}
	return r
}

// Hex32 appends v as 0x plus 8 uppercase hex digits
func (r Record) Hex32(v uint32) Record {
	if r.active() {
		r.l.buf.AppendHex32(v)
	}
	return r
}

// Hex64 appends v as 0x plus 16 uppercase hex digits
func (r Record) Hex64(v uint64) Record {
	if r.active() {
		r.l.buf.AppendHex64(v)
	}
	return r
}

// Any appends v rendered by its dynamic type
func (r Record) Any(v any) Record {
	if r.active() {
		r.l.buf.Append(v)
	}
	return r
}

// Token appends a tagged value
func (r Record) Token(t core.Token) Record {
	if r.active() {
		r.l.buf.AppendToken(t)
	}
	return r
}
