// Package sizeest estimates a lower bound on the binary size of an
// expression subtree: a per-opcode constant plus the minimal LEB encoding
// of anything variable-width, assuming unnamed blocks cost nothing and
// named ones, ifs, and loops cost their header bytes (spec 4.11, grounded
// on original_source's SizeAnalyzer).
package sizeest

import "github.com/wasmforge/wopt/ir"

// Estimate returns the lower-bound encoded size, in bytes, of e and every
// descendant. A nil e costs nothing.
func Estimate(e ir.Expression) int {
	if e == nil {
		return 0
	}

	size := own(e)
	for _, c := range e.Children() {
		if c != nil && *c != nil {
			size += Estimate(*c)
		}
	}
	return size
}

func own(e ir.Expression) int {
	switch n := e.(type) {
	case *ir.Block:
		if n.Name != "" {
			return 3
		}
		return 0
	case *ir.If:
		if n.IfFalse != nil {
			return 4
		}
		return 3
	case *ir.Loop:
		return 3
	case *ir.Break:
		return 2
	case *ir.Switch:
		return 3 + len(n.Names)
	case *ir.Call:
		return 2
	case *ir.CallIndirect:
		return 3
	case *ir.GetLocal:
		return 2
	case *ir.SetLocal:
		return 2
	case *ir.GetGlobal:
		return 2
	case *ir.SetGlobal:
		return 2
	case *ir.Load:
		if n.IsAtomic {
			return 4
		}
		return 3
	case *ir.Store:
		if n.IsAtomic {
			return 4
		}
		return 3
	case *ir.AtomicRMW:
		return 4
	case *ir.AtomicCmpxchg:
		return 4
	case *ir.Const:
		return 1 + literalSize(n.Value)
	case *ir.Unary:
		return 1 + mvpExtra(n.Op)
	case *ir.Binary:
		return 1 + mvpExtra(n.Op)
	case *ir.Select:
		return 1
	case *ir.Drop:
		return 1
	case *ir.Return:
		return 1
	case *ir.Host:
		return 2
	case *ir.Nop:
		return 1
	case *ir.Unreachable:
		return 1
	case *ir.SIMD:
		return 2
	default:
		return 1
	}
}

// literalSize is the written size of a value alone, smaller than a full
// Const node (which also carries an opcode).
func literalSize(v ir.Literal) int {
	switch v.Type {
	case ir.ValI32:
		return ir.LEBSize(int64(v.I32()))
	case ir.ValI64:
		return ir.LEBSize(v.I64())
	case ir.ValF32:
		return 4
	case ir.ValF64:
		return 8
	case ir.ValV128:
		return 16
	default:
		return 0
	}
}

// mvpExtra accounts for the extra prefix byte every non-MVP (threaded,
// sign-extension, saturating-conversion, SIMD-adjacent) unary/binary
// opcode needs; MVP opcodes are a single byte.
func mvpExtra(op string) int {
	if isMVPOp(op) {
		return 0
	}
	return 1
}

// isMVPOp reports whether op belongs to the original MVP opcode set, which
// needs no 0xFC/0xFD prefix byte. Anything added later (truncation
// saturation, sign extension, and all SIMD ops) is prefixed.
func isMVPOp(op string) bool {
	switch op {
	case "trunc_sat_f32_s", "trunc_sat_f32_u", "trunc_sat_f64_s", "trunc_sat_f64_u",
		"extend8_s", "extend16_s", "extend32_s":
		return false
	}
	return len(op) < 5 || op[:5] != "v128."
}
