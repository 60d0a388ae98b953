// Package copyprop implements copy propagation: rewriting a Get to read
// from the earliest index in its chain of SSA copies, so later passes (and
// coalescing) see fewer artificial dependencies between indices (spec 4.8).
package copyprop

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/internal/localgraph"
	"github.com/wasmforge/wopt/ir"
)

// Pass rewrites copy chains.
type Pass struct{}

func New() *Pass { return &Pass{} }

func (*Pass) Name() string       { return "copy-propagation" }
func (*Pass) ParallelSafe() bool { return true }

func (*Pass) Run(fn *ir.Function, m *ir.Module) error {
	if fn.Body == nil {
		return nil
	}

	g := cfg.Build(fn)
	g.UnlinkDeadBlocks()
	reach := liveness.ComputeReaching(g, fn.NumLocals())
	lg := localgraph.New(reach, fn.NumLocals())

	setsByIndex := map[int][]*ir.Expression{}
	for _, b := range g.Blocks {
		for _, a := range b.Actions {
			if a.IsSet() {
				setsByIndex[a.Index] = append(setsByIndex[a.Index], a.Origin)
			}
		}
	}

	rewrites := map[*ir.GetLocal]int{}
	for _, b := range g.Blocks {
		for _, a := range b.Actions {
			if !a.IsGet() {
				continue
			}
			r := reach.GetSets[a.Origin]
			if r == nil || r.ImplicitZero || len(r.Sets) != 1 {
				continue
			}
			gl := (*a.Origin).(*ir.GetLocal)
			min := ultimateSmallestIndex(gl.Index, r.Sets[0], setsByIndex, lg)
			if min != gl.Index {
				rewrites[gl] = min
			}
		}
	}
	// Applied only after every chain is resolved, so each walk sees the
	// body that lg and setsByIndex were computed from.
	for gl, min := range rewrites {
		gl.Index = min
	}
	return nil
}

// ultimateSmallestIndex walks the transitive chain of SSA copies starting
// from start's defining set, returning the smallest index encountered. Each
// link in the chain is resolved with ir.CopySources, which looks through a
// tee's own fallthrough (`set $y (local.tee $z (local.get $x))` resolves
// straight to $x) as well as a bare get; an ambiguous link (an if whose arms
// copy different indices) or a cycle (which cannot happen in a well-formed
// SSA chain, but costs nothing to guard) stops the walk rather than looping.
func ultimateSmallestIndex(start int, firstSet *ir.Expression, setsByIndex map[int][]*ir.Expression, lg *localgraph.Graph) int {
	min := start
	visited := map[*ir.Expression]bool{}
	cur := firstSet
	for cur != nil {
		if visited[cur] {
			break
		}
		visited[cur] = true

		sl, ok := (*cur).(*ir.SetLocal)
		if !ok {
			break
		}
		srcs := ir.CopySources(sl.Value)
		if len(srcs) != 1 || !lg.IsSSA(srcs[0]) {
			break
		}
		idx := srcs[0]
		if idx < min {
			min = idx
		}
		sets := setsByIndex[idx]
		if len(sets) != 1 {
			break
		}
		cur = sets[0]
	}
	return min
}
