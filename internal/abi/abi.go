// Package abi legalizes the JS/i64 interop surface: a single mutable i32
// global shuttling the high 32 bits of an i64 across the JS boundary, plus
// matching exported get/set accessors. Grounded on original_source's
// ABI::ensureI64Support, which refuses to proceed if it finds only part of
// this surface already present (spec 4.12).
package abi

import (
	"github.com/wasmforge/wopt/ir"
	"github.com/wasmforge/wopt/pass"
)

const (
	globalName = "tempRet0"
	getName    = "getTempRet0"
	setName    = "setTempRet0"
)

// Pass ensures the module has exactly one well-formed high-bits scratch
// global with matching accessor exports.
type Pass struct{}

func New() *Pass { return &Pass{} }

func (*Pass) Name() string       { return "abi-legalize" }
func (*Pass) ParallelSafe() bool { return false }

// Run delegates to Legalize; it is safe to call once per function (as the
// scheduler does for every pass) because Legalize is idempotent once the
// global and its accessors exist.
func (*Pass) Run(_ *ir.Function, m *ir.Module) error {
	return Legalize(m)
}

// Legalize performs the module-wide (not per-function) check and repair.
func Legalize(m *ir.Module) error {
	g := findGlobal(m, globalName)
	getExported := findExport(m, getName) != nil
	setExported := findExport(m, setName) != nil

	if g != nil {
		if !getExported || !setExported {
			return pass.NewBuilder(pass.PhaseABI, pass.KindABIInconsistent).
				Detail("global %q present without both exported accessors", globalName).
				Build()
		}
		return nil
	}
	if getExported || setExported {
		return pass.NewBuilder(pass.PhaseABI, pass.KindABIInconsistent).
			Detail("accessor export present without backing global %q", globalName).
			Build()
	}

	m.Globals = append(m.Globals, ir.Global{
		Name:    globalName,
		Type:    ir.ValI32,
		Mutable: true,
		Init:    &ir.Const{Value: ir.I32Literal(0)},
	})

	getFn := &ir.Function{
		Name:    getName,
		Results: []ir.ValType{ir.ValI32},
		Body:    &ir.GetGlobal{Name: globalName, ValType_: ir.ValI32},
	}
	setFn := &ir.Function{
		Name:   setName,
		Params: []ir.ValType{ir.ValI32},
		Body:   &ir.SetGlobal{Name: globalName, Value: &ir.GetLocal{Index: 0, ValType_: ir.ValI32}},
	}

	getIdx := m.FuncIndex(len(m.Functions))
	m.Functions = append(m.Functions, getFn)
	setIdx := m.FuncIndex(len(m.Functions))
	m.Functions = append(m.Functions, setFn)

	m.Exports = append(m.Exports,
		ir.Export{Name: getName, Kind: ir.ImportFunc, Index: getIdx},
		ir.Export{Name: setName, Kind: ir.ImportFunc, Index: setIdx},
	)
	return nil
}

func findGlobal(m *ir.Module, name string) *ir.Global {
	for i := range m.Globals {
		if m.Globals[i].Name == name {
			return &m.Globals[i]
		}
	}
	return nil
}

func findExport(m *ir.Module, name string) *ir.Export {
	for i := range m.Exports {
		if m.Exports[i].Name == name {
			return &m.Exports[i]
		}
	}
	return nil
}
