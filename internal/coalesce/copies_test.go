package coalesce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/ir"
)

func TestComputeCopiesWeighsTeeFallthrough(t *testing.T) {
	// set 1 = tee(2, get 0): a copy from 0 to 1, not from 2 to 1.
	fn := &ir.Function{
		Params: []ir.ValType{ir.ValI32},
		Vars:   []ir.ValType{ir.ValI32, ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{
				Index: 1,
				Value: &ir.SetLocal{Index: 2, Tee: true, Value: &ir.GetLocal{Index: 0, ValType_: ir.ValI32}},
			},
		}},
	}

	g := cfg.Build(fn)
	copies := ComputeCopies(g)

	w, ok := copies.Get(1, 0)
	assert.True(t, ok)
	assert.Equal(t, copyWeight, w)

	_, ok = copies.Get(1, 2)
	assert.False(t, ok, "should not weigh a copy against the tee's own index")
}

func TestComputeCopiesBonusesTheSingleSuccessorBackEdgeSource(t *testing.T) {
	// loop top { if cond { set 2 = get 1; continue } }
	// The copy sits in the if-true block, which branches only back to the
	// loop top: that block, not the loop top itself, earns the bonus.
	fn := &ir.Function{
		Params: []ir.ValType{ir.ValI32, ir.ValI32},
		Vars:   []ir.ValType{ir.ValI32},
		Body: &ir.Loop{Name: "top", Body: &ir.If{
			Condition: &ir.GetLocal{Index: 0, ValType_: ir.ValI32},
			IfTrue: &ir.Block{List: []ir.Expression{
				&ir.SetLocal{Index: 2, Value: &ir.GetLocal{Index: 1, ValType_: ir.ValI32}},
				&ir.Break{Name: "top"},
			}},
		}},
	}

	g := cfg.Build(fn)
	copies := ComputeCopies(g)

	w, ok := copies.Get(2, 1)
	assert.True(t, ok)
	assert.Equal(t, copyWeight+backEdgeCopyBonus, w)
}

func TestComputeCopiesDoesNotBonusACopyInTheLoopTopItself(t *testing.T) {
	// loop top { set 2 = get 1; continue if cond }
	// The copy sits in the loop-top block, which (with the conditional
	// continue) has two successors, not one: no bonus.
	fn := &ir.Function{
		Params: []ir.ValType{ir.ValI32, ir.ValI32},
		Vars:   []ir.ValType{ir.ValI32},
		Body: &ir.Loop{Name: "top", Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{Index: 2, Value: &ir.GetLocal{Index: 1, ValType_: ir.ValI32}},
			&ir.Break{Name: "top", Condition: &ir.GetLocal{Index: 0, ValType_: ir.ValI32}},
		}}},
	}

	g := cfg.Build(fn)
	copies := ComputeCopies(g)

	w, ok := copies.Get(2, 1)
	assert.True(t, ok)
	assert.Equal(t, copyWeight, w)
}

func TestComputeCopiesWeighsIfOfGets(t *testing.T) {
	// set 2 = if cond (get 0) else (get 1): a copy candidate against both arms.
	fn := &ir.Function{
		Params: []ir.ValType{ir.ValI32, ir.ValI32, ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{
				Index: 2,
				Value: &ir.If{
					Condition: &ir.GetLocal{Index: 2, ValType_: ir.ValI32},
					IfTrue:    &ir.GetLocal{Index: 0, ValType_: ir.ValI32},
					IfFalse:   &ir.GetLocal{Index: 1, ValType_: ir.ValI32},
				},
			},
		}},
	}

	g := cfg.Build(fn)
	copies := ComputeCopies(g)

	w0, ok0 := copies.Get(2, 0)
	w1, ok1 := copies.Get(2, 1)
	assert.True(t, ok0)
	assert.True(t, ok1)
	assert.Equal(t, copyWeight, w0)
	assert.Equal(t, copyWeight, w1)
}
