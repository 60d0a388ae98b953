package ir

// ValType represents a WebAssembly value type.
type ValType byte

const (
	ValNone ValType = iota
	ValI32
	ValI64
	ValF32
	ValF64
	ValV128
	ValFuncRef
	ValExtern
	ValUnreachable
)

func (t ValType) String() string {
	switch t {
	case ValNone:
		return "none"
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	case ValUnreachable:
		return "unreachable"
	default:
		return "invalid"
	}
}

// IsNumeric reports whether t is one of the numeric value types (i32, i64,
// f32, f64, v128). Reference types are excluded, matching CanStoreToMemory
// semantics in the teacher's engine package.
func (t ValType) IsNumeric() bool {
	switch t {
	case ValI32, ValI64, ValF32, ValF64, ValV128:
		return true
	default:
		return false
	}
}

// NumericTypes lists the value types the zero-init / equivalence engines
// must track a distinct "zero of type T" node for (spec 4.4).
var NumericTypes = []ValType{ValI32, ValI64, ValF32, ValF64, ValV128}
