package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmforge/wopt/ir"
)

func TestLegalizeAddsGlobalAndAccessorsOnce(t *testing.T) {
	m := &ir.Module{}
	require.NoError(t, Legalize(m))
	require.NoError(t, Legalize(m))

	assert.Len(t, m.Globals, 1)
	assert.Equal(t, globalName, m.Globals[0].Name)
	assert.True(t, m.Globals[0].Mutable)

	assert.Len(t, m.Functions, 2)
	assert.Len(t, m.Exports, 2)
}

func TestLegalizeRejectsGlobalWithoutBothExports(t *testing.T) {
	m := &ir.Module{
		Globals: []ir.Global{{Name: globalName, Type: ir.ValI32, Mutable: true}},
		Exports: []ir.Export{{Name: getName, Kind: ir.ImportFunc}},
	}
	err := Legalize(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abi-inconsistent")
}

func TestLegalizeRejectsExportsWithoutGlobal(t *testing.T) {
	m := &ir.Module{
		Exports: []ir.Export{
			{Name: getName, Kind: ir.ImportFunc},
			{Name: setName, Kind: ir.ImportFunc},
		},
	}
	err := Legalize(m)
	require.Error(t, err)
}
