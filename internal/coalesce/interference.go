// Package coalesce assigns each function's locals to the smallest possible
// set of indices without changing behavior: two indices can share a slot
// only if they are never simultaneously live, or if they are always
// provably holding the same value (spec 4.5/4.6).
package coalesce

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/equivalence"
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/internal/localgraph"
	"github.com/wasmforge/wopt/internal/support"
	"github.com/wasmforge/wopt/ir"
)

// ComputeInterference derives the base interference relation: index i
// interferes with index j if some Set of i occurs while j is live, walking
// each block backward from its Phase A live-out set (spec 4.5).
func ComputeInterference(g *cfg.Graph, il *liveness.IndexLiveness) *support.Relation {
	rel := support.NewRelation()
	for _, b := range g.Blocks {
		live := il.LiveOut[b].Clone()
		for k := len(b.Actions) - 1; k >= 0; k-- {
			a := b.Actions[k]
			if a.IsSet() {
				live.ForEach(func(j int) {
					if j != a.Index {
						rel.Insert(a.Index, j)
					}
				})
				live.Erase(a.Index)
			} else {
				live.Insert(a.Index)
			}
		}
	}
	return rel
}

// LiftProvenEquivalences erases interference between two SSA indices whose
// single defining value is provably the same, since sharing a slot between
// them can never observably change either one's value. This is a
// generalization beyond plain liveness: the equivalence engine (spec 4.4)
// is what makes it sound.
func LiftProvenEquivalences(rel *support.Relation, fn *ir.Function, lg *localgraph.Graph, eq *equivalence.Engine, setsByIndex map[int][]*ir.Expression) {
	rel.ForEach(func(i, j int) {
		if !lg.IsSSA(i) || !lg.IsSSA(j) {
			return
		}
		si, sj := setsByIndex[i], setsByIndex[j]
		if len(si) != 1 || len(sj) != 1 {
			return
		}
		if eq.SameValue(si[0], sj[0]) {
			rel.Erase(i, j)
		}
	})
}

// AddZeroInitParamInterference adds an interference edge between every
// non-parameter index whose implicit zero-init value is actually observed by
// some Get, and every parameter index. A parameter's incoming argument is
// not statically known to be zero, so without this edge the picker could
// coalesce a used zero-init local onto a parameter slot and silently change
// what the parameter's reads observe (spec 4.6).
func AddZeroInitParamInterference(rel *support.Relation, g *cfg.Graph, reach *liveness.Result, numParams int) {
	usesZero := map[int]bool{}
	for _, b := range g.Blocks {
		for _, a := range b.Actions {
			if !a.IsGet() {
				continue
			}
			if r := reach.GetSets[a.Origin]; r != nil && r.ImplicitZero {
				usesZero[a.Index] = true
			}
		}
	}
	for idx := range usesZero {
		if idx < numParams {
			continue
		}
		for p := 0; p < numParams; p++ {
			rel.Insert(idx, p)
		}
	}
}

// SetsByIndex groups every SetLocal origin in fn's CFG by the index it
// writes, for use by LiftProvenEquivalences.
func SetsByIndex(g *cfg.Graph) map[int][]*ir.Expression {
	out := map[int][]*ir.Expression{}
	for _, b := range g.Blocks {
		for _, a := range b.Actions {
			if a.IsSet() {
				out[a.Index] = append(out[a.Index], a.Origin)
			}
		}
	}
	return out
}
