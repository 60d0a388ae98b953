package wopt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmforge/wopt/ir"
)

func TestOptimizeRunsFullPipelineWithoutError(t *testing.T) {
	// add(a, b) { local t = a; return t + b }
	fn := &ir.Function{
		Name:    "add",
		Params:  []ir.ValType{ir.ValI32, ir.ValI32},
		Results: []ir.ValType{ir.ValI32},
		Vars:    []ir.ValType{ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{Index: 2, Value: &ir.GetLocal{Index: 0, ValType_: ir.ValI32}},
			&ir.Return{Value: &ir.Binary{
				Op:       "add",
				Left:     &ir.GetLocal{Index: 2, ValType_: ir.ValI32},
				Right:    &ir.GetLocal{Index: 1, ValType_: ir.ValI32},
				ValType_: ir.ValI32,
			}},
		}},
	}
	other := &ir.Function{
		Name:    "caller",
		Results: []ir.ValType{ir.ValI32},
		Body: &ir.Return{Value: &ir.Call{
			Target:     "add",
			Operands:   []ir.Expression{&ir.Const{Value: ir.I32Literal(1)}, &ir.Const{Value: ir.I32Literal(2)}},
			ResultType: ir.ValI32,
		}},
	}

	m := &ir.Module{Functions: []*ir.Function{fn, other}}

	require.NoError(t, Optimize(nil, m))

	// ABI legalization should have appended the scratch global + accessors
	// on top of the two original functions.
	require.Len(t, m.Globals, 1)
	require.Len(t, m.Functions, 4)
}
