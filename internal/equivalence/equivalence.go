// Package equivalence tracks which local values are provably identical at a
// point in a function, the shared engine behind coalescing's merge safety
// check, redundant-set elimination, and copy propagation (spec 4.4).
//
// The graph has three kinds of node: one per distinct SetLocal (the value it
// assigns), one per distinct constant literal (shared across every Const
// with that exact bit pattern, including the per-type zero used by
// zero-initialized locals), and one synthetic merge node per Get that has
// more than one reaching definition. Direct edges union a node into another
// node's class outright; a merge node only joins its inputs' shared class
// once every one of its inputs already agrees on that class — the
// merge-gating condition that makes the flood fill sound: a phi of
// disagreeing values can never be collapsed into either side.
package equivalence

import (
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/ir"
)

type nodeKind int

const (
	kindSet nodeKind = iota
	kindLiteral
	kindParam
	kindMerge
)

type node struct {
	kind     nodeKind
	mergeIns []int
}

// Engine is a built equivalence graph for one function, queryable after
// Build returns.
type Engine struct {
	nodes      []node
	parent     []int
	getNode    map[*ir.Expression]int
	setNode    map[*ir.Expression]int
	literalIdx map[ir.Literal]int
	paramIdx   map[int]int
}

func (e *Engine) newNode(kind nodeKind) int {
	id := len(e.nodes)
	e.nodes = append(e.nodes, node{kind: kind})
	e.parent = append(e.parent, id)
	return id
}

func (e *Engine) find(x int) int {
	for e.parent[x] != x {
		e.parent[x] = e.parent[e.parent[x]]
		x = e.parent[x]
	}
	return x
}

func (e *Engine) union(a, b int) bool {
	ra, rb := e.find(a), e.find(b)
	if ra == rb {
		return false
	}
	e.parent[ra] = rb
	return true
}

func (e *Engine) literalNode(l ir.Literal) int {
	if id, ok := e.literalIdx[l]; ok {
		return id
	}
	id := e.newNode(kindLiteral)
	e.literalIdx[l] = id
	return id
}

func (e *Engine) paramNode(index int) int {
	if id, ok := e.paramIdx[index]; ok {
		return id
	}
	id := e.newNode(kindParam)
	e.paramIdx[index] = id
	return id
}

func (e *Engine) setNodeFor(origin *ir.Expression) int {
	if id, ok := e.setNode[origin]; ok {
		return id
	}
	id := e.newNode(kindSet)
	e.setNode[origin] = id
	return id
}

// implicitNode returns the node standing in for "no explicit set reached
// here": the zero literal for a declared var, or the opaque per-index
// parameter node for a param.
func (e *Engine) implicitNode(index int, fn *ir.Function) int {
	if index < fn.NumParams() {
		return e.paramNode(index)
	}
	return e.literalNode(ir.MakeZero(fn.LocalType(index)))
}

// Build constructs the equivalence graph for fn from its Phase B reaching
// result and runs the flood fill to a stable fixed point.
func Build(fn *ir.Function, reach *liveness.Result) *Engine {
	e := &Engine{
		getNode:    map[*ir.Expression]int{},
		setNode:    map[*ir.Expression]int{},
		literalIdx: map[ir.Literal]int{},
		paramIdx:   map[int]int{},
	}

	for getOrigin, r := range reach.GetSets {
		gl := (*getOrigin).(*ir.GetLocal)
		var inputs []int
		for _, setOrigin := range r.Sets {
			inputs = append(inputs, e.setNodeFor(setOrigin))
		}
		if r.ImplicitZero {
			inputs = append(inputs, e.implicitNode(gl.Index, fn))
		}
		switch len(inputs) {
		case 0:
			// No reaching definition at all (unreachable get); give it an
			// isolated node so queries stay well-defined.
			e.getNode[getOrigin] = e.newNode(kindSet)
		case 1:
			e.getNode[getOrigin] = inputs[0]
		default:
			m := e.newNode(kindMerge)
			e.nodes[m].mergeIns = inputs
			e.getNode[getOrigin] = m
		}
	}

	// Every Set gets a node, including one whose value no Get observes.
	for setOrigin := range reach.PriorToSet {
		e.setNodeFor(setOrigin)
	}

	// Direct edges from a Set's own assigned value: a pure copy (Value is a
	// GetLocal) or a repeated constant unions the Set's node with whatever
	// node that value already resolves to.
	for setOrigin := range e.setNode {
		sl := (*setOrigin).(*ir.SetLocal)
		target := e.setNodeFor(setOrigin)
		switch sl.Value.(type) {
		case *ir.GetLocal:
			// sl.Value's slot is exactly the origin Phase B recorded this
			// nested Get's action against (cfg.Build visits a SetLocal's
			// children before recording the SetLocal's own action).
			if id, ok := e.getNode[&sl.Value]; ok {
				e.union(target, id)
			}
		case *ir.Const:
			e.union(target, e.literalNode(sl.Value.(*ir.Const).Value))
		}
	}

	e.flow()
	return e
}

func (e *Engine) flow() {
	changed := true
	for changed {
		changed = false
		for id, n := range e.nodes {
			if n.kind != kindMerge || len(n.mergeIns) == 0 {
				continue
			}
			first := e.find(n.mergeIns[0])
			agree := true
			for _, in := range n.mergeIns[1:] {
				if e.find(in) != first {
					agree = false
					break
				}
			}
			if agree && e.find(id) != first {
				if e.union(id, first) {
					changed = true
				}
			}
		}
	}
}

// ClassOfGet returns the canonical class id for the value observed at
// getOrigin.
func (e *Engine) ClassOfGet(getOrigin *ir.Expression) (int, bool) {
	id, ok := e.getNode[getOrigin]
	if !ok {
		return 0, false
	}
	return e.find(id), true
}

// ClassOfImplicit returns the canonical class id for the implicit
// zero/param value of index, the same node used as a merge input wherever
// Phase B reported ImplicitZero for that index.
func (e *Engine) ClassOfImplicit(index int, fn *ir.Function) int {
	return e.find(e.implicitNode(index, fn))
}

// ClassOfSet returns the canonical class id for the value setOrigin assigns.
func (e *Engine) ClassOfSet(setOrigin *ir.Expression) (int, bool) {
	id, ok := e.setNode[setOrigin]
	if !ok {
		return 0, false
	}
	return e.find(id), true
}

// SameValue reports whether the values observed/assigned at a and b are
// provably identical. a and b must each be a Get or a Set origin previously
// seen by Build.
func (e *Engine) SameValue(a, b *ir.Expression) bool {
	ca, ok := e.classOfEither(a)
	if !ok {
		return false
	}
	cb, ok := e.classOfEither(b)
	if !ok {
		return false
	}
	return ca == cb
}

func (e *Engine) classOfEither(origin *ir.Expression) (int, bool) {
	if id, ok := e.getNode[origin]; ok {
		return e.find(id), true
	}
	if id, ok := e.setNode[origin]; ok {
		return e.find(id), true
	}
	return 0, false
}
