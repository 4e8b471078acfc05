package logger

import (
	"github.com/philipp01105/ulog/core"
)

// Token helper functions for Logger.Log. Each returns a core.Token
// carrying the value in a fixed-size field, so a token list does not
// allocate.

// Text creates a text token
func Text(s string) core.Token {
	return core.Token{Kind: core.TextKind, Str: s}
}

// Bool creates a boolean token
func Bool(v bool) core.Token {
	t := core.Token{Kind: core.BoolKind}
	if v {
		t.Int64 = 1
	}
	return t
}

// Int creates a decimal integer token
func Int(v int) core.Token { return core.Token{Kind: core.IntKind, Int64: int64(v)} }

// Int8 creates a decimal integer token
func Int8(v int8) core.Token { return core.Token{Kind: core.IntKind, Int64: int64(v), Width: 1} }

// Int16 creates a decimal integer token
func Int16(v int16) core.Token { return core.Token{Kind: core.IntKind, Int64: int64(v), Width: 2} }

// Int32 creates a decimal integer token
func Int32(v int32) core.Token { return core.Token{Kind: core.IntKind, Int64: int64(v), Width: 4} }

// Int64 creates a decimal integer token
func Int64(v int64) core.Token { return core.Token{Kind: core.IntKind, Int64: v, Width: 8} }

// Uint creates a decimal integer token
func Uint(v uint) core.Token { return core.Token{Kind: core.UintKind, Uint64: uint64(v)} }

// Uint8 creates a decimal integer token
func Uint8(v uint8) core.Token { return core.Token{Kind: core.UintKind, Uint64: uint64(v), Width: 1} }

// Uint16 creates a decimal integer token
func Uint16(v uint16) core.Token { return core.Token{Kind: core.UintKind, Uint64: uint64(v), Width: 2} }

// Uint32 creates a decimal integer token
func Uint32(v uint32) core.Token { return core.Token{Kind: core.UintKind, Uint64: uint64(v), Width: 4} }

// Uint64 creates a decimal integer token
func Uint64(v uint64) core.Token { return core.Token{Kind: core.UintKind, Uint64: v, Width: 8} }

// Float32 creates a token rendered with 8 decimals
func Float32(v float32) core.Token {
	return core.Token{Kind: core.FloatKind, Float64: float64(v), Width: 4}
}

// Float64 creates a token rendered with 8 decimals
func Float64(v float64) core.Token {
	return core.Token{Kind: core.FloatKind, Float64: v, Width: 8}
}

// Hex8 creates a token rendered as 0x plus 2 uppercase hex digits
func Hex8(v uint8) core.Token { return core.Token{Kind: core.HexKind, Uint64: uint64(v), Width: 1} }

// Hex16 creates a token rendered as 0x plus 4 uppercase hex digits
func Hex16(v uint16) core.Token { return core.Token{Kind: core.HexKind, Uint64: uint64(v), Width: 2} }

// Hex32 creates a token rendered as 0x plus 8 uppercase hex digits
func Hex32(v uint32) core.Token { return core.Token{Kind: core.HexKind, Uint64: uint64(v), Width: 4} }

// Hex64 creates a token rendered as 0x plus 16 uppercase hex digits
func Hex64(v uint64) core.Token { return core.Token{Kind: core.HexKind, Uint64: v, Width: 8} }

// Pointer creates an address token
func Pointer(p uintptr) core.Token {
	return core.Token{Kind: core.PointerKind, Uint64: uint64(p)}
}

// Err creates a text token from an error. A nil error yields an empty
// token, which is not written.
func Err(err error) core.Token {
	if err == nil {
		return core.Token{Kind: core.TextKind}
	}
	return core.Token{Kind: core.TextKind, Str: err.Error()}
}
