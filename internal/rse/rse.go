// Package rse implements redundant-set elimination: dropping a SetLocal
// whose new value is already provably what that index holds, so the write
// cannot change anything any later Get observes (spec 4.7).
package rse

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/equivalence"
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/ir"
)

// Pass removes provably redundant local writes.
type Pass struct{}

func New() *Pass { return &Pass{} }

func (*Pass) Name() string       { return "redundant-set-elimination" }
func (*Pass) ParallelSafe() bool { return true }

func (*Pass) Run(fn *ir.Function, m *ir.Module) error {
	if fn.Body == nil {
		return nil
	}

	g := cfg.Build(fn)
	g.UnlinkDeadBlocks()
	reach := liveness.ComputeReaching(g, fn.NumLocals())
	eq := equivalence.Build(fn, reach)

	for _, b := range g.Blocks {
		for _, a := range b.Actions {
			if !a.IsSet() {
				continue
			}
			sl, ok := (*a.Origin).(*ir.SetLocal)
			if !ok || sl.Tee {
				continue
			}
			if isRedundant(fn, a.Origin, sl, reach, eq) {
				*a.Origin = dropKeepingEffects(sl.Value)
			}
		}
	}
	return nil
}

// isRedundant reports whether sl's new value matches the single,
// unambiguous value the index already held immediately before this write.
func isRedundant(fn *ir.Function, origin *ir.Expression, sl *ir.SetLocal, reach *liveness.Result, eq *equivalence.Engine) bool {
	newClass, ok := eq.ClassOfSet(origin)
	if !ok {
		return false
	}

	prior := reach.PriorToSet[origin]
	if prior == nil {
		return false
	}

	var priorClass int
	have := false
	if len(prior.Sets) == 1 && !prior.ImplicitZero {
		c, ok := eq.ClassOfSet(prior.Sets[0])
		if !ok {
			return false
		}
		priorClass, have = c, true
	} else if len(prior.Sets) == 0 && prior.ImplicitZero {
		priorClass, have = eq.ClassOfImplicit(sl.Index, fn), true
	}
	if !have {
		return false
	}
	return priorClass == newClass
}

// dropKeepingEffects replaces a redundant set with whatever side effects its
// value expression still needs to run (a bare GetLocal/Const has none, so
// the common case collapses straight to Nop).
func dropKeepingEffects(value ir.Expression) ir.Expression {
	switch value.(type) {
	case *ir.GetLocal, *ir.Const:
		return &ir.Nop{}
	default:
		return &ir.Drop{Value: value}
	}
}
