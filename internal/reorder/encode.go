package reorder

import (
	"math"

	"github.com/wasmforge/wopt/ir"
)

// encodeBody produces a deterministic byte sequence standing in for a
// function's encoded binary body, used only to build a Profile for the
// similarity secondary sort. Emitting real wasm binary is an explicit
// external-collaborator concern (spec 1); this is not a wasm encoder, it
// only needs to vary consistently with a function's shape and constants so
// that similar functions hash similarly.
func encodeBody(fn *ir.Function) []byte {
	var buf []byte
	buf = appendNode(buf, fn.Body)
	return buf
}

func appendNode(buf []byte, e ir.Expression) []byte {
	if e == nil {
		return append(buf, 0x00)
	}

	switch n := e.(type) {
	case *ir.Block:
		buf = append(buf, 0x02)
		for _, c := range n.List {
			buf = appendNode(buf, c)
		}
		return append(buf, 0x0b)
	case *ir.If:
		buf = append(buf, 0x04)
		buf = appendNode(buf, n.Condition)
		buf = appendNode(buf, n.IfTrue)
		if n.IfFalse != nil {
			buf = append(buf, 0x05)
			buf = appendNode(buf, n.IfFalse)
		}
		return append(buf, 0x0b)
	case *ir.Loop:
		buf = append(buf, 0x03)
		return append(appendNode(buf, n.Body), 0x0b)
	case *ir.Break:
		buf = append(buf, 0x0c, byte(len(n.Name)))
		if n.Condition != nil {
			buf = appendNode(buf, n.Condition)
		}
		return buf
	case *ir.Switch:
		buf = append(buf, 0x0e, byte(len(n.Names)))
		return appendNode(buf, n.Value)
	case *ir.Call:
		buf = append(buf, 0x10, byte(len(n.Target)))
		for _, o := range n.Operands {
			buf = appendNode(buf, o)
		}
		return buf
	case *ir.CallIndirect:
		buf = append(buf, 0x11)
		for _, o := range n.Operands {
			buf = appendNode(buf, o)
		}
		return appendNode(buf, n.Target)
	case *ir.GetLocal:
		return append(buf, 0x20, byte(n.Index))
	case *ir.SetLocal:
		tag := byte(0x21)
		if n.Tee {
			tag = 0x22
		}
		buf = append(buf, tag, byte(n.Index))
		return appendNode(buf, n.Value)
	case *ir.GetGlobal:
		return append(buf, 0x23, byte(len(n.Name)))
	case *ir.SetGlobal:
		buf = append(buf, 0x24, byte(len(n.Name)))
		return appendNode(buf, n.Value)
	case *ir.Load:
		buf = append(buf, 0x28, byte(n.Bytes), byte(n.Offset))
		return appendNode(buf, n.Ptr)
	case *ir.Store:
		buf = append(buf, 0x36, byte(n.Bytes), byte(n.Offset))
		buf = appendNode(buf, n.Ptr)
		return appendNode(buf, n.Value)
	case *ir.AtomicRMW:
		buf = append(buf, 0xfe, byte(n.Bytes))
		buf = appendNode(buf, n.Ptr)
		return appendNode(buf, n.Value)
	case *ir.AtomicCmpxchg:
		buf = append(buf, 0xfe, 0x01, byte(n.Bytes))
		buf = appendNode(buf, n.Ptr)
		buf = appendNode(buf, n.Expected)
		return appendNode(buf, n.Replacement)
	case *ir.Const:
		return appendLiteral(append(buf, 0x41), n.Value)
	case *ir.Unary:
		buf = append(buf, 0x45, opByte(n.Op))
		return appendNode(buf, n.Value)
	case *ir.Binary:
		buf = append(buf, 0x46, opByte(n.Op))
		buf = appendNode(buf, n.Left)
		return appendNode(buf, n.Right)
	case *ir.Select:
		buf = append(buf, 0x1b)
		buf = appendNode(buf, n.IfTrue)
		buf = appendNode(buf, n.IfFalse)
		return appendNode(buf, n.Condition)
	case *ir.Drop:
		buf = append(buf, 0x1a)
		return appendNode(buf, n.Value)
	case *ir.Return:
		buf = append(buf, 0x0f)
		if n.Value != nil {
			buf = appendNode(buf, n.Value)
		}
		return buf
	case *ir.Host:
		buf = append(buf, 0xfc, opByte(n.Op))
		for _, o := range n.Operands {
			buf = appendNode(buf, o)
		}
		return buf
	case *ir.Nop:
		return append(buf, 0x01)
	case *ir.Unreachable:
		return append(buf, 0x00)
	case *ir.SIMD:
		buf = append(buf, 0xfd, opByte(n.Op))
		for _, o := range n.Operands {
			buf = appendNode(buf, o)
		}
		return buf
	default:
		return append(buf, 0xff)
	}
}

func appendLiteral(buf []byte, v ir.Literal) []byte {
	switch v.Type {
	case ir.ValI32:
		return append(buf, byte(v.I32()), byte(v.I32()>>8), byte(v.I32()>>16), byte(v.I32()>>24))
	case ir.ValI64:
		x := v.I64()
		for i := 0; i < 8; i++ {
			buf = append(buf, byte(x>>(8*i)))
		}
		return buf
	case ir.ValF32:
		bits := math.Float32bits(v.F32())
		return append(buf, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	case ir.ValF64:
		bits := math.Float64bits(v.F64())
		for i := 0; i < 8; i++ {
			buf = append(buf, byte(bits>>(8*i)))
		}
		return buf
	default:
		return buf
	}
}

func opByte(op string) byte {
	var h byte
	for i := 0; i < len(op); i++ {
		h = h*31 + op[i]
	}
	return h
}
