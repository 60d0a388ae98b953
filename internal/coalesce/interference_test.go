package coalesce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/internal/liveness"
	"github.com/wasmforge/wopt/internal/support"
	"github.com/wasmforge/wopt/ir"
)

func TestAddZeroInitParamInterferenceGuardsUsedZeroInit(t *testing.T) {
	// local 0 is a param; local 1 is never set before it's read, so its
	// zero-init value is observed. Merging 1 into param 0's slot would let a
	// non-zero incoming argument leak into a read that expects zero.
	fn := &ir.Function{
		Params: []ir.ValType{ir.ValI32},
		Vars:   []ir.ValType{ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.Drop{Value: &ir.GetLocal{Index: 1, ValType_: ir.ValI32}},
		}},
	}

	g := cfg.Build(fn)
	reach := liveness.ComputeReaching(g, fn.NumLocals())
	rel := support.NewRelation()
	AddZeroInitParamInterference(rel, g, reach, fn.NumParams())

	assert.True(t, rel.Has(0, 1))
}

func TestAddZeroInitParamInterferenceIgnoresAlwaysSetLocals(t *testing.T) {
	fn := &ir.Function{
		Params: []ir.ValType{ir.ValI32},
		Vars:   []ir.ValType{ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{Index: 1, Value: &ir.Const{Value: ir.I32Literal(1)}},
			&ir.Drop{Value: &ir.GetLocal{Index: 1, ValType_: ir.ValI32}},
		}},
	}

	g := cfg.Build(fn)
	reach := liveness.ComputeReaching(g, fn.NumLocals())
	rel := support.NewRelation()
	AddZeroInitParamInterference(rel, g, reach, fn.NumParams())

	assert.False(t, rel.Has(0, 1))
}
