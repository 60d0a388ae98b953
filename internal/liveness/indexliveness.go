// Package liveness computes, over a function's control-flow graph, which
// local indices are live at each program point (Phase A) and which concrete
// SetLocal instances can reach each GetLocal (Phase B), per spec 4.2/4.3.
package liveness

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/support"
)

// IndexLiveness holds, per block, the set of local indices live on entry
// and on exit from that block.
type IndexLiveness struct {
	LiveIn  map[*cfg.BasicBlock]*support.IndexSet
	LiveOut map[*cfg.BasicBlock]*support.IndexSet
}

// ComputeIndexLiveness runs the backward fixed point: liveOut(b) is the
// union of liveIn(successor) over b's successors; liveIn(b) is liveOut(b)
// with each block-local Set killing its index and each Get generating it,
// walked in reverse action order. Blocks are revisited until no LiveIn
// changes, which IndexSet.Merge reports directly.
func ComputeIndexLiveness(g *cfg.Graph) *IndexLiveness {
	il := &IndexLiveness{
		LiveIn:  make(map[*cfg.BasicBlock]*support.IndexSet, len(g.Blocks)),
		LiveOut: make(map[*cfg.BasicBlock]*support.IndexSet, len(g.Blocks)),
	}
	for _, b := range g.Blocks {
		il.LiveIn[b] = support.NewIndexSet()
		il.LiveOut[b] = support.NewIndexSet()
	}

	changed := true
	for changed {
		changed = false
		// Reverse post-order isn't computed explicitly; iterating blocks
		// back-to-front a few extra times is cheap and still converges to
		// the same monotonic fixed point regardless of visit order.
		for i := len(g.Blocks) - 1; i >= 0; i-- {
			b := g.Blocks[i]
			out := support.NewIndexSet()
			for _, succ := range b.Out {
				out.Merge(il.LiveIn[succ])
			}
			if il.LiveOut[b].Merge(out) {
				changed = true
			}

			in := il.LiveOut[b].Clone()
			for j := len(b.Actions) - 1; j >= 0; j-- {
				a := b.Actions[j]
				if a.IsSet() {
					in.Erase(a.Index)
				} else {
					in.Insert(a.Index)
				}
			}
			if il.LiveIn[b].Merge(in) {
				changed = true
			}
		}
	}
	return il
}
