package sizeest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wasmforge/wopt/ir"
)

func TestConstI32UsesMinimalLEB(t *testing.T) {
	// opcode (1) + LEB(0) (1) = 2
	assert.Equal(t, 2, Estimate(&ir.Const{Value: ir.I32Literal(0)}))
}

func TestUnnamedBlockCostsNothingButChildrenStillCount(t *testing.T) {
	b := &ir.Block{List: []ir.Expression{&ir.Nop{}, &ir.Nop{}}}
	assert.Equal(t, 2, Estimate(b))
}

func TestNamedBlockCostsThreeBytes(t *testing.T) {
	b := &ir.Block{Name: "done", List: []ir.Expression{&ir.Nop{}}}
	assert.Equal(t, 4, Estimate(b))
}

func TestIfWithElseCostsMoreThanIfAlone(t *testing.T) {
	withElse := &ir.If{Condition: &ir.Nop{}, IfTrue: &ir.Nop{}, IfFalse: &ir.Nop{}}
	withoutElse := &ir.If{Condition: &ir.Nop{}, IfTrue: &ir.Nop{}}
	assert.Greater(t, Estimate(withElse), Estimate(withoutElse))
}
