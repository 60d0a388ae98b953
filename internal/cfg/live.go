package cfg

import "github.com/wasmforge/wopt/ir"

// FindLiveBlocks returns the set of blocks reachable from g.Entry. Orphan
// blocks created for post-terminator dead code (see builder.orphan) are
// never reachable, since nothing ever links into them.
func (g *Graph) FindLiveBlocks() map[*BasicBlock]bool {
	live := map[*BasicBlock]bool{}
	if g.Entry == nil {
		return live
	}
	stack := []*BasicBlock{g.Entry}
	live[g.Entry] = true
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		for _, out := range cur.Out {
			if !live[out] {
				live[out] = true
				stack = append(stack, out)
			}
		}
	}
	return live
}

// UnlinkDeadBlocks removes every block not reachable from Entry, along with
// any edges pointing at it, and renumbers the survivors' Index fields to be
// contiguous again. Before dropping a dead block it neutralizes the naked
// Get/Set nodes its actions point at (spec 4.1): once this graph is built,
// no pass ever looks inside an unreachable block again, so without this a
// dead Get/Set would keep referencing its original local index even after
// coalescing renumbers (and retypes) that index for the live code, leaving
// a stale reference behind for anything that walks the raw body directly.
func (g *Graph) UnlinkDeadBlocks() {
	live := g.FindLiveBlocks()

	kept := make([]*BasicBlock, 0, len(live))
	for _, b := range g.Blocks {
		if !live[b] {
			for _, a := range b.Actions {
				*a.Origin = ir.Neutral((*a.Origin).Type())
			}
			continue
		}
		filtered := b.In[:0]
		for _, p := range b.In {
			if live[p] {
				filtered = append(filtered, p)
			}
		}
		b.In = filtered
		kept = append(kept, b)
	}
	for i, b := range kept {
		b.Index = i
	}
	g.Blocks = kept
}
