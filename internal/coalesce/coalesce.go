package coalesce

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/equivalence"
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/internal/localgraph"
	"github.com/wasmforge/wopt/ir"
)

// Config selects which order-picking strategy Pass uses.
type Config struct {
	// UseLearning enables the genetic-search variant (Learn) instead of
	// the two-order greedy picker (PickIndices).
	UseLearning bool
}

// Pass is the coalescing optimization: it renumbers each function's
// non-parameter locals into the smallest index range that respects
// interference, preferring to merge indices with heavy copy traffic between
// them (spec 4.5, 4.6).
type Pass struct {
	Config Config
}

func New(cfg Config) *Pass { return &Pass{Config: cfg} }

func (*Pass) Name() string       { return "coalesce-locals" }
func (*Pass) ParallelSafe() bool { return true }

func (p *Pass) Run(fn *ir.Function, m *ir.Module) error {
	if fn.Body == nil || fn.NumLocals() == fn.NumParams() {
		return nil
	}

	g := cfg.Build(fn)
	g.UnlinkDeadBlocks()

	il := liveness.ComputeIndexLiveness(g)
	reach := liveness.ComputeReaching(g, fn.NumLocals())
	lg := localgraph.New(reach, fn.NumLocals())
	eq := equivalence.Build(fn, reach)

	interference := ComputeInterference(g, il)
	setsByIndex := SetsByIndex(g)
	LiftProvenEquivalences(interference, fn, lg, eq, setsByIndex)
	AddZeroInitParamInterference(interference, g, reach, fn.NumParams())

	copies := ComputeCopies(g)

	var coloring Coloring
	if p.Config.UseLearning {
		coloring = Learn(fn, interference, copies)
	} else {
		coloring = PickIndices(fn, interference, copies)
	}

	Apply(fn, g, coloring)
	return nil
}

// Apply rewrites every Get/Set in fn's CFG to use coloring's new indices,
// drops any Set that becomes a self-copy (`set x = get x`) by replacing it
// with its value's side effects via ir.Neutral, and rebuilds fn.Vars.
func Apply(fn *ir.Function, g *cfg.Graph, c Coloring) {
	for _, b := range g.Blocks {
		for _, a := range b.Actions {
			switch n := (*a.Origin).(type) {
			case *ir.GetLocal:
				n.Index = c.NewIndex[n.Index]
			case *ir.SetLocal:
				oldIndex := n.Index
				n.Index = c.NewIndex[oldIndex]
				if !n.Tee {
					if gl, ok := n.Value.(*ir.GetLocal); ok && gl.Index == n.Index {
						*a.Origin = ir.Neutral(ir.ValNone)
					}
				}
			}
		}
	}

	numParams := fn.NumParams()
	origTypes := make([]ir.ValType, len(c.NewIndex))
	for i := range origTypes {
		origTypes[i] = fn.LocalType(i)
	}

	newVars := make([]ir.ValType, c.NumNewLocals-numParams)
	assigned := make([]bool, c.NumNewLocals)
	for old, nw := range c.NewIndex {
		if nw < numParams || assigned[nw] {
			continue
		}
		newVars[nw-numParams] = origTypes[old]
		assigned[nw] = true
	}
	fn.Vars = newVars
	fn.LocalNames = nil
}
