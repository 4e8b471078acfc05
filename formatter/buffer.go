package formatter

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"
	"unsafe"

	"github.com/philipp01105/ulog/core"
)

// DefaultCapacity is the capacity of a Buffer created with a
// non-positive size.
const DefaultCapacity = 4096

// Worst-case rendered widths per Go type, excluding the separator.
const (
	boolWidth    = len("false")
	int8Width    = len("-128")
	int16Width   = len("-32768")
	int32Width   = len("-2147483648")
	int64Width   = len("-9223372036854775808")
	uint8Width   = len("255")
	uint16Width  = len("65535")
	uint32Width  = len("4294967295")
	uint64Width  = len("18446744073709551615")
	intWidth     = int32Width + (int64Width-int32Width)*(strconv.IntSize/64)
	uintWidth    = uint32Width + (uint64Width-uint32Width)*(strconv.IntSize/64)
	pointerWidth = 2 + 2*int(unsafe.Sizeof(uintptr(0)))
	runeWidth    = utf8.UTFMax

	// Scratch sizes for rendering floats: sign, integer digits of the
	// largest finite value, point, decimals. Floats reserve the length
	// they actually render to.
	float32Width = 1 + 39 + 1 + floatPrecision
	float64Width = 1 + 309 + 1 + floatPrecision
)

const floatPrecision = 8

// Buffer is the bounded record a log call writes into. Its backing
// array is allocated once and reused across records; it never grows.
// At most Cap()-1 bytes of content are held.
//
// Buffer is not safe for concurrent use. The logger guards it with its
// primary lock.
type Buffer struct {
	buf       []byte
	limit     int
	truncated bool
	severity  core.Severity
}

// NewBuffer creates a Buffer with the given capacity in bytes
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if capacity < 2 {
		capacity = 2
	}
	return &Buffer{
		buf:      make([]byte, 0, capacity),
		limit:    capacity - 1,
		severity: core.Info,
	}
}

// Reset empties the buffer, clears the truncated flag and restores the
// default severity.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.truncated = false
	b.severity = core.Info
}

// Bytes returns the accumulated tokens. The slice is only valid until
// the next mutation.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns a copy of the accumulated tokens
func (b *Buffer) String() string { return string(b.buf) }

// Len returns the number of content bytes
func (b *Buffer) Len() int { return len(b.buf) }

// Cap returns the buffer capacity including the reserved byte
func (b *Buffer) Cap() int { return b.limit + 1 }

// Available returns how many content bytes can still be written
func (b *Buffer) Available() int { return b.limit - len(b.buf) }

// Truncated reports whether any append since the last Reset was clamped
// or dropped.
func (b *Buffer) Truncated() bool { return b.truncated }

// Severity returns the severity the record is tagged with
func (b *Buffer) Severity() core.Severity { return b.severity }

// SetSeverity tags the record
func (b *Buffer) SetSeverity(s core.Severity) { b.severity = s }

// reserve makes room for a value of at most width bytes and writes the
// separator. It reports false, marking the record truncated, when the
// worst case does not fit.
func (b *Buffer) reserve(width int) bool {
	need := width
	if len(b.buf) > 0 {
		need++
	}
	if need > b.limit-len(b.buf) {
		b.truncated = true
		return false
	}
	if len(b.buf) > 0 {
		b.buf = append(b.buf, ' ')
	}
	return true
}

// clampUTF8 returns the longest prefix length of s not exceeding n that
// does not split a multi-byte rune.
func clampUTF8[T string | []byte](s T, n int) int {
	if n >= len(s) {
		return len(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

func appendText[T string | []byte](b *Buffer, s T) {
	if len(s) == 0 {
		return
	}
	avail := b.limit - len(b.buf)
	if len(b.buf) > 0 {
		avail--
	}
	if avail <= 0 {
		b.truncated = true
		return
	}
	if len(s) > avail {
		b.truncated = true
		s = s[:clampUTF8(s, avail)]
		if len(s) == 0 {
			return
		}
	}
	if len(b.buf) > 0 {
		b.buf = append(b.buf, ' ')
	}
	b.buf = append(b.buf, s...)
}

// AppendString appends text, clamped to the remaining space
func (b *Buffer) AppendString(s string) { appendText(b, s) }

// AppendBytes appends text, clamped to the remaining space
func (b *Buffer) AppendBytes(p []byte) { appendText(b, p) }

// AppendBool appends "true" or "false"
func (b *Buffer) AppendBool(v bool) {
	if b.reserve(boolWidth) {
		b.buf = strconv.AppendBool(b.buf, v)
	}
}

func (b *Buffer) appendSigned(v int64, width int) {
	if b.reserve(width) {
		b.buf = strconv.AppendInt(b.buf, v, 10)
	}
}

func (b *Buffer) appendUnsigned(v uint64, width int) {
	if b.reserve(width) {
		b.buf = strconv.AppendUint(b.buf, v, 10)
	}
}

// AppendInt appends v in decimal
func (b *Buffer) AppendInt(v int) { b.appendSigned(int64(v), intWidth) }

// AppendInt8 appends v in decimal
func (b *Buffer) AppendInt8(v int8) { b.appendSigned(int64(v), int8Width) }

// AppendInt16 appends v in decimal
func (b *Buffer) AppendInt16(v int16) { b.appendSigned(int64(v), int16Width) }

// AppendInt32 appends v in decimal
func (b *Buffer) AppendInt32(v int32) { b.appendSigned(int64(v), int32Width) }

// AppendInt64 appends v in decimal
func (b *Buffer) AppendInt64(v int64) { b.appendSigned(v, int64Width) }

// AppendUint appends v in decimal
func (b *Buffer) AppendUint(v uint) { b.appendUnsigned(uint64(v), uintWidth) }

// AppendUint8 appends v in decimal
func (b *Buffer) AppendUint8(v uint8) { b.appendUnsigned(uint64(v), uint8Width) }

// AppendUint16 appends v in decimal
func (b *Buffer) AppendUint16(v uint16) { b.appendUnsigned(uint64(v), uint16Width) }

// AppendUint32 appends v in decimal
func (b *Buffer) AppendUint32(v uint32) { b.appendUnsigned(uint64(v), uint32Width) }

// AppendUint64 appends v in decimal
func (b *Buffer) AppendUint64(v uint64) { b.appendUnsigned(v, uint64Width) }

// AppendUintptr appends v in decimal
func (b *Buffer) AppendUintptr(v uintptr) { b.appendUnsigned(uint64(v), uintWidth) }

// AppendFloat32 appends v in fixed notation with 8 decimals
func (b *Buffer) AppendFloat32(v float32) {
	var scratch [float32Width]byte
	b.appendRendered(strconv.AppendFloat(scratch[:0], float64(v), 'f', floatPrecision, 32))
}

// AppendFloat64 appends v in fixed notation with 8 decimals
func (b *Buffer) AppendFloat64(v float64) {
	var scratch [float64Width]byte
	b.appendRendered(strconv.AppendFloat(scratch[:0], v, 'f', floatPrecision, 64))
}

// appendRendered writes p whole or not at all
func (b *Buffer) appendRendered(p []byte) {
	if b.reserve(len(p)) {
		b.buf = append(b.buf, p...)
	}
}

// AppendPointer appends an address as 0x followed by lowercase hex
func (b *Buffer) AppendPointer(p uintptr) {
	if b.reserve(pointerWidth) {
		b.buf = append(b.buf, '0', 'x')
		b.buf = strconv.AppendUint(b.buf, uint64(p), 16)
	}
}

// AppendRune appends a single character. Invalid runes are written as
// U+FFFD.
func (b *Buffer) AppendRune(r rune) {
	if b.reserve(runeWidth) {
		b.buf = utf8.AppendRune(b.buf, r)
	}
}

const hexDigits = "0123456789ABCDEF"

// appendHex writes v as 0x plus exactly 2*bytes uppercase digits
func (b *Buffer) appendHex(v uint64, bytes int) {
	if !b.reserve(2 + 2*bytes) {
		return
	}
	b.buf = append(b.buf, '0', 'x')
	for shift := bytes*8 - 4; shift >= 0; shift -= 4 {
		b.buf = append(b.buf, hexDigits[(v>>uint(shift))&0xF])
	}
}

// AppendHex8 appends v as 0x plus 2 uppercase hex digits
func (b *Buffer) AppendHex8(v uint8) { b.appendHex(uint64(v), 1) }

// AppendHex16 appends v as 0x plus 4 uppercase hex digits
func (b *Buffer) AppendHex16(v uint16) { b.appendHex(uint64(v), 2) }

// AppendHex32 appends v as 0x plus 8 uppercase hex digits
func (b *Buffer) AppendHex32(v uint32) { b.appendHex(uint64(v), 4) }

// AppendHex64 appends v as 0x plus 16 uppercase hex digits
func (b *Buffer) AppendHex64(v uint64) { b.appendHex(v, 8) }

// AppendToken appends the value carried by a tagged Token
func (b *Buffer) AppendToken(t core.Token) {
	switch t.Kind {
	case core.TextKind:
		b.AppendString(t.Str)
	case core.BoolKind:
		b.AppendBool(t.Int64 != 0)
	case core.IntKind:
		b.appendSigned(t.Int64, signedWidth(t.ByteWidth()))
	case core.UintKind:
		b.appendUnsigned(t.Uint64, unsignedWidth(t.ByteWidth()))
	case core.FloatKind:
		if t.ByteWidth() == 4 {
			b.AppendFloat32(float32(t.Float64))
		} else {
			b.AppendFloat64(t.Float64)
		}
	case core.HexKind:
		b.appendHex(t.Uint64, hexBytes(t.ByteWidth()))
	case core.PointerKind:
		b.AppendPointer(uintptr(t.Uint64))
	}
}

func signedWidth(bytes int) int {
	switch bytes {
	case 1:
		return int8Width
	case 2:
		return int16Width
	case 4:
		return int32Width
	default:
		return int64Width
	}
}

func unsignedWidth(bytes int) int {
	switch bytes {
	case 1:
		return uint8Width
	case 2:
		return uint16Width
	case 4:
		return uint32Width
	default:
		return uint64Width
	}
}

func hexBytes(bytes int) int {
	switch bytes {
	case 1, 2, 4:
		return bytes
	default:
		return 8
	}
}

// Append renders v according to its dynamic type. Concrete numeric,
// boolean and text types take the same path as their typed Append
// method; errors and fmt.Stringers are written as text; pointers as
// addresses. Anything else is rendered with fmt and costs an allocation.
func (b *Buffer) Append(v any) {
	switch v := v.(type) {
	case nil:
	case string:
		b.AppendString(v)
	case []byte:
		b.AppendBytes(v)
	case bool:
		b.AppendBool(v)
	case int:
		b.AppendInt(v)
	case int8:
		b.AppendInt8(v)
	case int16:
		b.AppendInt16(v)
	case int32:
		b.AppendInt32(v)
	case int64:
		b.AppendInt64(v)
	case uint:
		b.AppendUint(v)
	case uint8:
		b.AppendUint8(v)
	case uint16:
		b.AppendUint16(v)
	case uint32:
		b.AppendUint32(v)
	case uint64:
		b.AppendUint64(v)
	case uintptr:
		b.AppendUintptr(v)
	case float32:
		b.AppendFloat32(v)
	case float64:
		b.AppendFloat64(v)
	case unsafe.Pointer:
		b.AppendPointer(uintptr(v))
	case core.Token:
		b.AppendToken(v)
	case error:
		b.AppendString(v.Error())
	case fmt.Stringer:
		b.AppendString(v.String())
	default:
		b.appendReflect(v)
	}
}

// appendReflect handles named types whose underlying kind is one the
// buffer renders natively.
func (b *Buffer) appendReflect(v any) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		b.AppendPointer(rv.Pointer())
	case reflect.Bool:
		b.AppendBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.appendSigned(rv.Int(), signedWidth(int(rv.Type().Size())))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.appendUnsigned(rv.Uint(), unsignedWidth(int(rv.Type().Size())))
	case reflect.Float32:
		b.AppendFloat32(float32(rv.Float()))
	case reflect.Float64:
		b.AppendFloat64(rv.Float())
	case reflect.String:
		b.AppendString(rv.String())
	default:
		b.AppendString(fmt.Sprint(v))
	}
}
