package coalesce

import (
	"sort"

	"github.com/wasmforge/wopt/internal/support"
	"github.com/wasmforge/wopt/ir"
)

// Coloring is the result of assigning old local indices to new, packed
// indices.
type Coloring struct {
	NewIndex      []int // old index -> new index, len == numLocals
	NumNewLocals  int
	RemovedWeight int
	MergedSlots   int // slots holding more than one original index
}

// PickIndicesFromOrder greedily colors order (a permutation of the non-param
// indices) against the existing type-checked, interference-respecting slots,
// preferring to reuse whichever compatible slot has the highest total copy
// weight to indices already assigned there; ties prefer the higher-numbered
// candidate slot (spec 4.6's coloring tie-break). Parameters keep their
// original index, matching wasm's fixed positional calling convention.
func PickIndicesFromOrder(fn *ir.Function, order []int, interference *support.Relation, copies *support.PairMap[int]) Coloring {
	numLocals := fn.NumLocals()
	numParams := fn.NumParams()
	types := make([]ir.ValType, numLocals)
	for i := 0; i < numLocals; i++ {
		types[i] = fn.LocalType(i)
	}

	newIndex := make([]int, numLocals)
	for i := range newIndex {
		newIndex[i] = -1
	}
	slotType := make([]ir.ValType, numParams, numLocals)
	occupants := make([][]int, numParams, numLocals)
	for i := 0; i < numParams; i++ {
		newIndex[i] = i
		slotType[i] = types[i]
		occupants[i] = []int{i}
	}

	removedWeight := 0
	for _, old := range order {
		if newIndex[old] != -1 {
			continue
		}
		best := -1
		bestWeight := -1
		for cand := 0; cand < len(slotType); cand++ {
			if slotType[cand] != types[old] {
				continue
			}
			conflict := false
			for _, other := range occupants[cand] {
				if interference.Has(old, other) {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}
			w := 0
			for _, other := range occupants[cand] {
				cw, _ := copies.Get(old, other)
				w += cw
			}
			if w > bestWeight || (w == bestWeight && cand > best) {
				bestWeight = w
				best = cand
			}
		}
		if best == -1 {
			best = len(slotType)
			slotType = append(slotType, types[old])
			occupants = append(occupants, nil)
			bestWeight = 0
		}
		newIndex[old] = best
		occupants[best] = append(occupants[best], old)
		removedWeight += bestWeight
	}

	merged := 0
	for _, occ := range occupants {
		if len(occ) > 1 {
			merged++
		}
	}

	return Coloring{NewIndex: newIndex, NumNewLocals: len(slotType), RemovedWeight: removedWeight, MergedSlots: merged}
}

// identityOrder lists the non-param indices in ascending order.
func identityOrder(fn *ir.Function) []int {
	out := make([]int, 0, fn.NumLocals()-fn.NumParams())
	for i := fn.NumParams(); i < fn.NumLocals(); i++ {
		out = append(out, i)
	}
	return out
}

// reversedOrder lists the non-param indices in descending order.
func reversedOrder(fn *ir.Function) []int {
	id := identityOrder(fn)
	out := make([]int, len(id))
	for i, v := range id {
		out[len(id)-1-i] = v
	}
	return out
}

// totalCopies sums, for each index named in order, its copy weight against
// every other index (spec 4.6's per-index priority that biases the order a
// picker starts from).
func totalCopies(order []int, copies *support.PairMap[int]) map[int]int {
	totals := make(map[int]int, len(order))
	for _, idx := range order {
		totals[idx] = 0
	}
	copies.ForEach(func(a, b, w int) {
		if _, ok := totals[a]; ok {
			totals[a] += w
		}
		if _, ok := totals[b]; ok {
			totals[b] += w
		}
	})
	return totals
}

// adjustOrderByPriorities reorders baseline so higher-priority indices come
// first; two indices with equal priority keep whatever relative order they
// already had in baseline (spec 4.6).
func adjustOrderByPriorities(baseline []int, priorities map[int]int) []int {
	position := make(map[int]int, len(baseline))
	for i, v := range baseline {
		position[v] = i
	}
	ret := append([]int(nil), baseline...)
	sort.Slice(ret, func(i, j int) bool {
		x, y := ret[i], ret[j]
		if priorities[x] != priorities[y] {
			return priorities[x] > priorities[y]
		}
		return position[x] < position[y]
	})
	return ret
}

// maxNewIndex returns the highest new index a coloring assigned, or -1 if it
// assigned none.
func maxNewIndex(c Coloring) int {
	max := -1
	for _, n := range c.NewIndex {
		if n > max {
			max = n
		}
	}
	return max
}

// PickIndices biases the identity order and the fully reversed order by
// total copy weight, runs the greedy picker on each, and keeps whichever
// removed more copy weight; a tie goes to whichever assigned the smaller
// maximum index, since that packs locals into fewer slots (spec 4.6's
// top-level order picker).
func PickIndices(fn *ir.Function, interference *support.Relation, copies *support.PairMap[int]) Coloring {
	id := identityOrder(fn)
	rev := reversedOrder(fn)
	priorities := totalCopies(id, copies)

	a := PickIndicesFromOrder(fn, adjustOrderByPriorities(id, priorities), interference, copies)
	b := PickIndicesFromOrder(fn, adjustOrderByPriorities(rev, priorities), interference, copies)

	switch {
	case a.RemovedWeight != b.RemovedWeight:
		if a.RemovedWeight > b.RemovedWeight {
			return a
		}
		return b
	case maxNewIndex(a) != maxNewIndex(b):
		if maxNewIndex(a) < maxNewIndex(b) {
			return a
		}
		return b
	default:
		return a
	}
}
