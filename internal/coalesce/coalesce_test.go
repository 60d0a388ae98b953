package coalesce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/ir"
)

// Two non-interfering vars used in disjoint halves of the function should
// coalesce down to one slot.
func TestPassMergesNonInterferingVars(t *testing.T) {
	fn := &ir.Function{
		Vars: []ir.ValType{ir.ValI32, ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{Index: 0, Value: &ir.Const{Value: ir.I32Literal(1)}},
			&ir.Drop{Value: &ir.GetLocal{Index: 0, ValType_: ir.ValI32}},
			&ir.SetLocal{Index: 1, Value: &ir.Const{Value: ir.I32Literal(2)}},
			&ir.Drop{Value: &ir.GetLocal{Index: 1, ValType_: ir.ValI32}},
		}},
	}

	p := New(Config{})
	require.NoError(t, p.Run(fn, &ir.Module{Functions: []*ir.Function{fn}}))

	assert.Equal(t, 1, len(fn.Vars))
}

func TestPassKeepsInterferingVarsSeparate(t *testing.T) {
	fn := &ir.Function{
		Vars: []ir.ValType{ir.ValI32, ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{Index: 0, Value: &ir.Const{Value: ir.I32Literal(1)}},
			&ir.SetLocal{Index: 1, Value: &ir.Const{Value: ir.I32Literal(2)}},
			&ir.Drop{Value: &ir.GetLocal{Index: 0, ValType_: ir.ValI32}},
			&ir.Drop{Value: &ir.GetLocal{Index: 1, ValType_: ir.ValI32}},
		}},
	}

	p := New(Config{})
	require.NoError(t, p.Run(fn, &ir.Module{Functions: []*ir.Function{fn}}))

	assert.Equal(t, 2, len(fn.Vars))
}

func TestLearnNeverProducesMoreLocalsThanGreedy(t *testing.T) {
	fn := &ir.Function{
		Vars: []ir.ValType{ir.ValI32, ir.ValI32, ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{Index: 0, Value: &ir.Const{Value: ir.I32Literal(1)}},
			&ir.Drop{Value: &ir.GetLocal{Index: 0, ValType_: ir.ValI32}},
			&ir.SetLocal{Index: 1, Value: &ir.Const{Value: ir.I32Literal(2)}},
			&ir.Drop{Value: &ir.GetLocal{Index: 1, ValType_: ir.ValI32}},
			&ir.SetLocal{Index: 2, Value: &ir.Const{Value: ir.I32Literal(3)}},
			&ir.Drop{Value: &ir.GetLocal{Index: 2, ValType_: ir.ValI32}},
		}},
	}

	g := cfg.Build(fn)
	g.UnlinkDeadBlocks()
	il := liveness.ComputeIndexLiveness(g)
	interference := ComputeInterference(g, il)
	copies := ComputeCopies(g)

	greedy := PickIndices(fn, interference, copies)
	learned := Learn(fn, interference, copies)

	assert.LessOrEqual(t, learned.NumNewLocals, greedy.NumNewLocals)
}
