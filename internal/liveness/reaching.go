package liveness

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/ir"
)

// Reaching is the set of SetLocal instances (by their stable origin slot)
// that may have produced the value a given GetLocal observes. ImplicitZero
// is set when the local's parameter/zero-initialized value can also reach
// here — the ⊥ sentinel of spec 4.3, standing in for "no explicit set in
// this path".
type Reaching struct {
	Sets         []*ir.Expression
	ImplicitZero bool
}

// Result is the output of Phase B: per Get, which Sets (or the implicit
// zero/param) can reach it, and the transpose, per Set, which Gets it
// reaches.
type Result struct {
	GetSets map[*ir.Expression]*Reaching
	SetGets map[*ir.Expression][]*ir.Expression
	// PriorToSet is the reaching state for a Set's own index immediately
	// before that Set executes — what a Get positioned right there would
	// have observed. Redundant-set elimination uses it to detect a write
	// that cannot change what any later Get sees (spec 4.7).
	PriorToSet map[*ir.Expression]*Reaching
}

type indexState struct {
	sets         map[*ir.Expression]bool
	implicitZero bool
}

func entryState(numLocals int) []indexState {
	st := make([]indexState, numLocals)
	for i := range st {
		st[i] = indexState{sets: map[*ir.Expression]bool{}, implicitZero: true}
	}
	return st
}

func emptyState(numLocals int) []indexState {
	st := make([]indexState, numLocals)
	for i := range st {
		st[i] = indexState{sets: map[*ir.Expression]bool{}}
	}
	return st
}

func cloneState(st []indexState) []indexState {
	out := make([]indexState, len(st))
	for i, s := range st {
		cp := map[*ir.Expression]bool{}
		for k := range s.sets {
			cp[k] = true
		}
		out[i] = indexState{sets: cp, implicitZero: s.implicitZero}
	}
	return out
}

func mergeState(into, from []indexState) bool {
	changed := false
	for i := range into {
		for k := range from[i].sets {
			if !into[i].sets[k] {
				into[i].sets[k] = true
				changed = true
			}
		}
		if from[i].implicitZero && !into[i].implicitZero {
			into[i].implicitZero = true
			changed = true
		}
	}
	return changed
}

func snapshot(s indexState) *Reaching {
	r := &Reaching{ImplicitZero: s.implicitZero}
	for setOrigin := range s.sets {
		r.Sets = append(r.Sets, setOrigin)
	}
	return r
}

// transfer applies b's actions to st in place, returning the resulting
// out-state. If getRecord/setRecord are non-nil, every Get's (resp. every
// Set's pre-write) reaching state is snapshotted into them as the analysis
// walks past it.
func transfer(b *cfg.BasicBlock, st []indexState, getRecord, setRecord map[*ir.Expression]*Reaching) []indexState {
	for _, a := range b.Actions {
		if a.IsGet() {
			if getRecord != nil {
				getRecord[a.Origin] = snapshot(st[a.Index])
			}
			continue
		}
		if setRecord != nil {
			setRecord[a.Origin] = snapshot(st[a.Index])
		}
		st[a.Index] = indexState{sets: map[*ir.Expression]bool{a.Origin: true}, implicitZero: false}
	}
	return st
}

// ComputeReaching runs Phase B: a forward fixed point propagating, per local
// index, the set of SetLocal origins (plus the implicit-zero sentinel) that
// can reach each program point, then records the converged reaching set at
// every Get.
func ComputeReaching(g *cfg.Graph, numLocals int) *Result {
	in := make(map[*cfg.BasicBlock][]indexState, len(g.Blocks))
	out := make(map[*cfg.BasicBlock][]indexState, len(g.Blocks))
	for _, b := range g.Blocks {
		out[b] = emptyState(numLocals)
	}
	if g.Entry != nil {
		in[g.Entry] = entryState(numLocals)
	}
	for _, b := range g.Blocks {
		if in[b] == nil {
			in[b] = emptyState(numLocals)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range g.Blocks {
			merged := cloneState(in[b])
			for _, pred := range b.In {
				mergeState(merged, out[pred])
			}
			if mergeState(in[b], merged) {
				changed = true
			}
			st := cloneState(in[b])
			st = transfer(b, st, nil, nil)
			if mergeState(out[b], st) {
				changed = true
			}
		}
	}

	res := &Result{
		GetSets:    map[*ir.Expression]*Reaching{},
		SetGets:    map[*ir.Expression][]*ir.Expression{},
		PriorToSet: map[*ir.Expression]*Reaching{},
	}
	for _, b := range g.Blocks {
		st := cloneState(in[b])
		transfer(b, st, res.GetSets, res.PriorToSet)
	}
	for getOrigin, r := range res.GetSets {
		for _, setOrigin := range r.Sets {
			res.SetGets[setOrigin] = append(res.SetGets[setOrigin], getOrigin)
		}
	}
	return res
}
