package core

// TokenKind represents the type of value carried by a Token
type TokenKind uint8

const (
	TextKind TokenKind = iota
	BoolKind
	IntKind
	UintKind
	FloatKind
	HexKind
	PointerKind
)

// Token is a tagged variant holding one value to append to a record.
// Numeric payloads live in fixed-size fields so that a []Token passed to
// a variadic call does not box each value on the heap.
type Token struct {
	Kind    TokenKind
	Int64   int64
	Uint64  uint64
	Float64 float64
	Str     string
	// Width is the source width in bytes for IntKind, UintKind, FloatKind
	// and HexKind. It selects the worst-case rendering width, and for
	// HexKind the zero padding. Zero means 8.
	Width uint8
}

// ByteWidth returns Width, substituting 8 for zero
func (t Token) ByteWidth() int {
	if t.Width == 0 {
		return 8
	}
	return int(t.Width)
}
