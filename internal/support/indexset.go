// Package support holds the small generic containers the dataflow passes
// build on: a sorted index set for liveness bitvectors, a worklist pair for
// fixed-point iteration, and a canonicalized unordered-pair store for
// symmetric relations like interference.
package support

import "sort"

// IndexSet is a sorted, deduplicated set of non-negative indices. It backs
// Phase A's backward index-liveness vectors (spec 4.2): each block's
// live-in/live-out set is an IndexSet, and the backward fixed point keeps
// merging until no Merge call reports a change.
type IndexSet struct {
	items []int
}

// NewIndexSet builds an IndexSet from the given indices, order-independent.
func NewIndexSet(indices ...int) *IndexSet {
	s := &IndexSet{}
	for _, i := range indices {
		s.Insert(i)
	}
	return s
}

// Has reports whether i is a member.
func (s *IndexSet) Has(i int) bool {
	pos := sort.SearchInts(s.items, i)
	return pos < len(s.items) && s.items[pos] == i
}

// Insert adds i, returning true if it was not already present.
func (s *IndexSet) Insert(i int) bool {
	pos := sort.SearchInts(s.items, i)
	if pos < len(s.items) && s.items[pos] == i {
		return false
	}
	s.items = append(s.items, 0)
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = i
	return true
}

// Erase removes i if present, returning true if it was.
func (s *IndexSet) Erase(i int) bool {
	pos := sort.SearchInts(s.items, i)
	if pos >= len(s.items) || s.items[pos] != i {
		return false
	}
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	return true
}

// Merge unions other into s, returning true if s grew. Used as the monotonic
// step of the backward liveness fixed point: iteration stops once every
// block's Merge call returns false.
func (s *IndexSet) Merge(other *IndexSet) bool {
	changed := false
	for _, i := range other.items {
		if s.Insert(i) {
			changed = true
		}
	}
	return changed
}

// Len returns the number of members.
func (s *IndexSet) Len() int { return len(s.items) }

// Slice returns the members in ascending order. The caller must not mutate
// the returned slice.
func (s *IndexSet) Slice() []int { return s.items }

// Clone returns an independent copy.
func (s *IndexSet) Clone() *IndexSet {
	c := &IndexSet{items: make([]int, len(s.items))}
	copy(c.items, s.items)
	return c
}

// ForEach calls fn for every member in ascending order.
func (s *IndexSet) ForEach(fn func(int)) {
	for _, i := range s.items {
		fn(i)
	}
}
