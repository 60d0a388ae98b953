package support

// Pair is a canonicalized unordered pair of indices: A <= B always. Two
// pairs built from the same two indices in either order compare equal,
// matching original_source's SymmetricPair.
type Pair struct {
	A, B int
}

// NewPair canonicalizes (a, b) so the smaller index is always A.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Relation is a symmetric relation over indices: inserting (a, b) makes both
// Has(a, b) and Has(b, a) true. Backs the interference relation (spec 4.5).
type Relation struct {
	pairs map[Pair]bool
}

// NewRelation returns an empty relation.
func NewRelation() *Relation { return &Relation{pairs: make(map[Pair]bool)} }

// Insert records that a and b are related.
func (r *Relation) Insert(a, b int) { r.pairs[NewPair(a, b)] = true }

// Has reports whether a and b are related.
func (r *Relation) Has(a, b int) bool { return r.pairs[NewPair(a, b)] }

// Erase removes the relation between a and b.
func (r *Relation) Erase(a, b int) { delete(r.pairs, NewPair(a, b)) }

// Len returns the number of distinct related pairs.
func (r *Relation) Len() int { return len(r.pairs) }

// ForEach calls fn once per distinct related pair, in unspecified order.
func (r *Relation) ForEach(fn func(a, b int)) {
	for p := range r.pairs {
		fn(p.A, p.B)
	}
}

// PairMap associates a value with each unordered pair of indices. Backs the
// copy-weight table (spec 4.6), where weight(a, b) == weight(b, a).
type PairMap[V any] struct {
	values map[Pair]V
}

// NewPairMap returns an empty map.
func NewPairMap[V any]() *PairMap[V] { return &PairMap[V]{values: make(map[Pair]V)} }

// Get returns the value stored for (a, b) and whether it was present.
func (m *PairMap[V]) Get(a, b int) (V, bool) {
	v, ok := m.values[NewPair(a, b)]
	return v, ok
}

// Set stores v for (a, b).
func (m *PairMap[V]) Set(a, b int, v V) { m.values[NewPair(a, b)] = v }

// ForEach calls fn once per stored pair, in unspecified order.
func (m *PairMap[V]) ForEach(fn func(a, b int, v V)) {
	for p, v := range m.values {
		fn(p.A, p.B, v)
	}
}
