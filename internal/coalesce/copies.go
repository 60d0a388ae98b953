package coalesce

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/support"
	"github.com/wasmforge/wopt/ir"
)

const (
	copyWeight        = 2
	backEdgeCopyBonus = 1
)

// ComputeCopies weighs how much it would be worth merging each pair of
// indices: every `set x = v` where v's value is CopySources-transparent
// (a bare get, a tee's fallthrough get, or an if whose arms are both
// copies) contributes copyWeight per source, with an extra backEdgeCopyBonus
// when the copy sits in the single-successor block that is itself the
// source of a loop back-edge, since eliminating it there removes a
// per-iteration cost rather than a one-time one (spec 4.6).
func ComputeCopies(g *cfg.Graph) *support.PairMap[int] {
	copies := support.NewPairMap[int]()
	for _, b := range g.Blocks {
		onBackEdge := hasIncomingBackEdge(b)
		for _, a := range b.Actions {
			if !a.IsSet() {
				continue
			}
			sl, ok := (*a.Origin).(*ir.SetLocal)
			if !ok {
				continue
			}
			for _, src := range ir.CopySources(sl.Value) {
				if src == a.Index {
					continue
				}
				w := copyWeight
				if onBackEdge {
					w += backEdgeCopyBonus
				}
				cur, _ := copies.Get(a.Index, src)
				copies.Set(a.Index, src, cur+w)
			}
		}
	}
	return copies
}

// hasIncomingBackEdge reports whether b is the single-successor source of a
// loop back-edge: b branches to exactly one block, and that branch is itself
// the back-edge into a loop top.
func hasIncomingBackEdge(b *cfg.BasicBlock) bool {
	if len(b.Out) != 1 {
		return false
	}
	to := b.Out[0]
	return to.BackEdge[b]
}
