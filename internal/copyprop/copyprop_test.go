package copyprop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmforge/wopt/ir"
)

func TestFollowsChainToSmallestIndex(t *testing.T) {
	// local 1 = param 0 (copy); local 2 = local 1 (copy); get local 2
	// should end up reading local 0 (param), the smallest in the chain.
	finalGet := &ir.GetLocal{Index: 2, ValType_: ir.ValI32}
	fn := &ir.Function{
		Params: []ir.ValType{ir.ValI32},
		Vars:   []ir.ValType{ir.ValI32, ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{Index: 1, Value: &ir.GetLocal{Index: 0, ValType_: ir.ValI32}},
			&ir.SetLocal{Index: 2, Value: &ir.GetLocal{Index: 1, ValType_: ir.ValI32}},
			&ir.Drop{Value: finalGet},
		}},
	}

	require.NoError(t, New().Run(fn, &ir.Module{Functions: []*ir.Function{fn}}))
	assert.Equal(t, 0, finalGet.Index)
}

func TestFollowsThroughTeeFallthrough(t *testing.T) {
	// local 1 = tee(local 2, get local 0); read of local 1 should resolve
	// straight through the tee to local 0, the ultimate source.
	finalGet := &ir.GetLocal{Index: 1, ValType_: ir.ValI32}
	fn := &ir.Function{
		Params: []ir.ValType{ir.ValI32},
		Vars:   []ir.ValType{ir.ValI32, ir.ValI32},
		Body: &ir.Block{List: []ir.Expression{
			&ir.SetLocal{
				Index: 1,
				Value: &ir.SetLocal{
					Index: 2,
					Tee:   true,
					Value: &ir.GetLocal{Index: 0, ValType_: ir.ValI32},
				},
			},
			&ir.Drop{Value: finalGet},
		}},
	}

	require.NoError(t, New().Run(fn, &ir.Module{Functions: []*ir.Function{fn}}))
	assert.Equal(t, 0, finalGet.Index)
}
