// Package delicm sinks an SSA local's value directly into its single use
// when that use sits inside a deeper loop nest than the write, shrinking the
// local's live range across loop back-edges (spec 4.14, grounded on the
// SetInfo{effects, stack} tracking DeLoopInvariantCodeMotion.cpp builds
// while walking a function body).
package delicm

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/effects"
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/internal/localgraph"
	"github.com/wasmforge/wopt/ir"
)

// Pass performs the sink.
type Pass struct{}

func New() *Pass { return &Pass{} }

func (*Pass) Name() string       { return "de-licm" }
func (*Pass) ParallelSafe() bool { return true }

type pendingSet struct {
	origin *ir.Expression
	value  ir.Expression
	eff    effects.Set
	depth  int
}

type state struct {
	lg      *localgraph.Graph
	pending map[int]*pendingSet
	accum   map[int]effects.Set
}

func (*Pass) Run(fn *ir.Function, m *ir.Module) error {
	if fn.Body == nil {
		return nil
	}

	g := cfg.Build(fn)
	g.UnlinkDeadBlocks()
	reach := liveness.ComputeReaching(g, fn.NumLocals())
	lg := localgraph.New(reach, fn.NumLocals())

	st := &state{
		lg:      lg,
		pending: map[int]*pendingSet{},
		accum:   map[int]effects.Set{},
	}
	st.visit(&fn.Body, 0)
	return nil
}

func (st *state) clonePending() (map[int]*pendingSet, map[int]effects.Set) {
	p := make(map[int]*pendingSet, len(st.pending))
	for k, v := range st.pending {
		p[k] = v
	}
	a := make(map[int]effects.Set, len(st.accum))
	for k, v := range st.accum {
		a[k] = v
	}
	return p, a
}

func (st *state) bumpOthers(skip int, eff effects.Set) {
	if !eff.HasSideEffects() {
		return
	}
	for idx := range st.pending {
		if idx == skip {
			continue
		}
		st.accum[idx] = effects.Combine(st.accum[idx], eff)
	}
}

func (st *state) invalidated(index int) bool {
	p, ok := st.pending[index]
	if !ok {
		return true
	}
	acc := st.accum[index]
	return acc.Invalidates(p.eff) || p.eff.Invalidates(acc)
}

// visit processes origin as a statement executed at the given control-flow
// nesting depth (incremented once per enclosing Loop), rewriting eligible
// Gets and recording eligible Sets as it goes.
func (st *state) visit(origin *ir.Expression, depth int) {
	if origin == nil || *origin == nil {
		return
	}

	switch n := (*origin).(type) {
	case *ir.GetLocal:
		if p, ok := st.pending[n.Index]; ok && depth > p.depth && !st.invalidated(n.Index) {
			*origin = p.value
			*p.origin = &ir.Nop{}
			delete(st.pending, n.Index)
			delete(st.accum, n.Index)
		}
		return

	case *ir.SetLocal:
		st.visit(&n.Value, depth)
		if !n.Tee && st.lg.IsSSA(n.Index) && len(st.lg.SetInfluences(origin)) == 1 {
			eff := effects.Analyze(n.Value)
			if !eff.HasSideEffects() {
				st.pending[n.Index] = &pendingSet{origin: origin, value: n.Value, eff: eff, depth: depth}
				st.accum[n.Index] = effects.Set{}
				return
			}
		}
		st.bumpOthers(n.Index, effects.Analyze(*origin))
		return

	case *ir.Block:
		for i := range n.List {
			st.visit(&n.List[i], depth)
		}
		return

	case *ir.Loop:
		st.visit(&n.Body, depth+1)
		return

	case *ir.If:
		st.visit(&n.Condition, depth)
		savedP, savedA := st.clonePending()
		st.visit(&n.IfTrue, depth)
		if n.IfFalse != nil {
			st.pending, st.accum = savedP, savedA
			st.visit(&n.IfFalse, depth)
		}
		// Only one branch is ever taken; a sink recorded in one arm cannot
		// be assumed live on the other, so neither survives past the If.
		st.pending = map[int]*pendingSet{}
		st.accum = map[int]effects.Set{}
		return

	default:
		for _, c := range (*origin).Children() {
			st.visit(c, depth)
		}
		st.bumpOthers(-1, effects.Analyze(*origin))
		return
	}
}
