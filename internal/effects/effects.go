// Package effects computes a conservative summary of what an expression
// subtree can observe or change, the side-effect and invalidation checks
// De-LICM needs before it can safely sink a set into a loop (spec 4.14).
package effects

import "github.com/wasmforge/wopt/ir"

// Set is a conservative over-approximation of what a subtree can do.
type Set struct {
	ReadsMemory  bool
	WritesMemory bool
	ReadsGlobal  bool
	WritesGlobal bool
	Traps        bool
	Calls        bool
}

// HasSideEffects reports whether evaluating this subtree can do anything
// other than produce its result value.
func (s Set) HasSideEffects() bool {
	return s.WritesMemory || s.WritesGlobal || s.Traps || s.Calls
}

// Invalidates reports whether s, executed between a read/write of other's
// kind and the point that depends on it, could change the outcome —
// conservative: any call invalidates everything, since the callee is
// opaque.
func (s Set) Invalidates(other Set) bool {
	if s.Calls || other.Calls {
		return true
	}
	if s.WritesMemory && (other.ReadsMemory || other.WritesMemory) {
		return true
	}
	if s.WritesGlobal && (other.ReadsGlobal || other.WritesGlobal) {
		return true
	}
	return false
}

// Combine unions two effect sets, the conservative merge used when two
// pieces of code might both run on some path.
func Combine(a, b Set) Set { return or(a, b) }

func or(sets ...Set) Set {
	var out Set
	for _, s := range sets {
		out.ReadsMemory = out.ReadsMemory || s.ReadsMemory
		out.WritesMemory = out.WritesMemory || s.WritesMemory
		out.ReadsGlobal = out.ReadsGlobal || s.ReadsGlobal
		out.WritesGlobal = out.WritesGlobal || s.WritesGlobal
		out.Traps = out.Traps || s.Traps
		out.Calls = out.Calls || s.Calls
	}
	return out
}

func isDivOrRem(op string) bool {
	for _, s := range []string{"div", "rem"} {
		if len(op) >= len(s) {
			for i := 0; i+len(s) <= len(op); i++ {
				if op[i:i+len(s)] == s {
					return true
				}
			}
		}
	}
	return false
}

// Analyze computes the effect set of e and every descendant.
func Analyze(e ir.Expression) Set {
	if e == nil {
		return Set{}
	}

	var own Set
	switch n := e.(type) {
	case *ir.Load:
		own = Set{ReadsMemory: true, Traps: n.IsAtomic}
	case *ir.Store:
		own = Set{WritesMemory: true, Traps: n.IsAtomic}
	case *ir.AtomicRMW:
		own = Set{ReadsMemory: true, WritesMemory: true, Traps: true}
	case *ir.AtomicCmpxchg:
		own = Set{ReadsMemory: true, WritesMemory: true, Traps: true}
	case *ir.GetGlobal:
		own = Set{ReadsGlobal: true}
	case *ir.SetGlobal:
		own = Set{WritesGlobal: true}
	case *ir.Call:
		own = Set{Calls: true}
	case *ir.CallIndirect:
		own = Set{Calls: true, Traps: true}
	case *ir.Unreachable:
		own = Set{Traps: true}
	case *ir.Binary:
		own = Set{Traps: isDivOrRem(n.Op)}
	case *ir.Host:
		own = Set{ReadsMemory: true, WritesMemory: true}
	}

	children := or(own)
	for _, c := range e.Children() {
		if c == nil || *c == nil {
			continue
		}
		children = or(children, Analyze(*c))
	}
	return children
}
