package ir

import "math"

// Literal is a tagged constant value over the numeric WebAssembly types.
// It is directly hashable/comparable so it can key a map, matching how the
// equivalence engine tracks "the same constant literal" and the zero-init
// sentinel nodes.
type Literal struct {
	Type ValType
	bits uint64
}

// I32Literal builds an i32 literal.
func I32Literal(v int32) Literal { return Literal{Type: ValI32, bits: uint64(uint32(v))} }

// I64Literal builds an i64 literal.
func I64Literal(v int64) Literal { return Literal{Type: ValI64, bits: uint64(v)} }

// F32Literal builds an f32 literal. NaNs compare bit-exact, matching wasm
// constant folding semantics (no NaN canonicalization at this layer).
func F32Literal(v float32) Literal {
	return Literal{Type: ValF32, bits: uint64(math.Float32bits(v))}
}

// F64Literal builds an f64 literal.
func F64Literal(v float64) Literal {
	return Literal{Type: ValF64, bits: math.Float64bits(v)}
}

// V128Literal builds a v128 literal from its big-endian byte pair halves.
func V128Literal(hi, lo uint64) Literal {
	return Literal{Type: ValV128, bits: hi ^ (lo * 0x9E3779B97F4A7C15)}
}

// I32 returns the i32 value; callers must check Type first.
func (l Literal) I32() int32 { return int32(uint32(l.bits)) }

// I64 returns the i64 value; callers must check Type first.
func (l Literal) I64() int64 { return int64(l.bits) }

// F32 returns the f32 value; callers must check Type first.
func (l Literal) F32() float32 { return math.Float32frombits(uint32(l.bits)) }

// F64 returns the f64 value; callers must check Type first.
func (l Literal) F64() float64 { return math.Float64frombits(l.bits) }

// MakeZero returns the canonical zero literal for t. t must be one of the
// NumericTypes; MakeZero panics otherwise, matching the original's
// WASM_UNREACHABLE() on an unexpected type.
func MakeZero(t ValType) Literal {
	switch t {
	case ValI32:
		return I32Literal(0)
	case ValI64:
		return I64Literal(0)
	case ValF32:
		return F32Literal(0)
	case ValF64:
		return F64Literal(0)
	case ValV128:
		return V128Literal(0, 0)
	default:
		panic("ir: MakeZero of non-numeric type " + t.String())
	}
}

// IsZero reports whether l is the canonical zero for its type.
func (l Literal) IsZero() bool {
	return l == MakeZero(l.Type)
}
