// Package localgraph answers per-local-index questions — which Sets reach a
// Get, which Gets a Set influences, and whether an index is effectively
// single-static-assignment — on top of the raw Phase B reaching-definitions
// result (spec 4.3's GetSets/SetGets, generalized into the predicate isSSA
// CopyPropagation and De-LICM both depend on).
package localgraph

import (
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/ir"
)

// Graph wraps a function's reaching-definitions result with index-level
// queries.
type Graph struct {
	reach     *liveness.Result
	numLocals int
}

// New builds a Graph from an already-computed Phase B result.
func New(reach *liveness.Result, numLocals int) *Graph {
	return &Graph{reach: reach, numLocals: numLocals}
}

// GetSetses returns the SetLocal origins that may have produced the value
// observed at getOrigin (excluding the implicit zero/param sentinel; check
// ImplicitZero separately via Reaching if that distinction matters).
func (g *Graph) GetSetses(getOrigin *ir.Expression) []*ir.Expression {
	r := g.reach.GetSets[getOrigin]
	if r == nil {
		return nil
	}
	return r.Sets
}

// ImplicitZeroReaches reports whether the parameter/zero-init value can
// reach getOrigin alongside (or instead of) any explicit set.
func (g *Graph) ImplicitZeroReaches(getOrigin *ir.Expression) bool {
	r := g.reach.GetSets[getOrigin]
	return r != nil && r.ImplicitZero
}

// SetInfluences returns every Get that setOrigin's value may reach.
func (g *Graph) SetInfluences(setOrigin *ir.Expression) []*ir.Expression {
	return g.reach.SetGets[setOrigin]
}

// IsSSA reports whether index has a single, unambiguous source of truth:
// every Get of it observes either the same lone explicit Set, or always the
// implicit zero/param value, never a mix and never more than one Set.
func (g *Graph) IsSSA(index int) bool {
	var identity *ir.Expression
	sawIdentity := false
	for getOrigin, r := range g.reach.GetSets {
		gl, ok := (*getOrigin).(*ir.GetLocal)
		if !ok || gl.Index != index {
			continue
		}
		switch {
		case len(r.Sets) == 0 && r.ImplicitZero:
			if sawIdentity && identity != nil {
				return false
			}
			sawIdentity = true
		case len(r.Sets) == 1 && !r.ImplicitZero:
			if sawIdentity && identity != r.Sets[0] {
				return false
			}
			identity = r.Sets[0]
			sawIdentity = true
		default:
			return false
		}
	}
	return true
}
