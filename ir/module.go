package ir

// Function is a single wasm function body together with its signature and
// local slots. Locals 0..NumParams-1 are parameters (always fixed in place,
// never renumbered); NumParams..NumLocals-1 are declared vars, the only
// locals coalescing is allowed to renumber.
type Function struct {
	Name       string
	Params     []ValType
	Results    []ValType
	Vars       []ValType
	Body       Expression
	LocalNames map[int]string
}

// NumParams returns the number of fixed parameter locals.
func (f *Function) NumParams() int { return len(f.Params) }

// NumLocals returns the total local count (params + vars).
func (f *Function) NumLocals() int { return len(f.Params) + len(f.Vars) }

// LocalType returns the value type of local index i.
func (f *Function) LocalType(i int) ValType {
	if i < len(f.Params) {
		return f.Params[i]
	}
	return f.Vars[i-len(f.Params)]
}

// ResultType returns the function's single result type, or ValNone for a
// void function (multi-value returns are out of scope, matching spec 1's
// Non-goals).
func (f *Function) ResultType() ValType {
	if len(f.Results) == 0 {
		return ValNone
	}
	return f.Results[0]
}

// ImportKind distinguishes the four importable/exportable external kinds.
type ImportKind int

const (
	ImportFunc ImportKind = iota
	ImportGlobal
	ImportMemory
	ImportTable
)

// Import is an external declaration a function/global/memory/table is
// satisfied by, rather than defined in this module.
type Import struct {
	Module string
	Name   string
	Kind   ImportKind
	// FuncParams/FuncResults are populated for ImportFunc.
	FuncParams  []ValType
	FuncResults []ValType
	// GlobalType/GlobalMutable are populated for ImportGlobal.
	GlobalType    ValType
	GlobalMutable bool
}

// Export re-exposes a module-internal definition under an external name.
type Export struct {
	Name  string
	Kind  ImportKind
	Index uint32
}

// Global is a module-level mutable or immutable value, initialized by a
// constant-foldable expression.
type Global struct {
	Name    string
	Type    ValType
	Mutable bool
	Init    Expression
}

// ElemSegment populates a contiguous range of table slots with function
// references, used to resolve call_indirect targets.
type ElemSegment struct {
	Offset int
	Funcs  []string
}

// Table holds the indirect-call function table.
type Table struct {
	Min      uint32
	Max      uint32
	HasMax   bool
	Segments []ElemSegment
}

// Memory describes the module's single linear memory.
type Memory struct {
	Min    uint32
	Max    uint32
	HasMax bool
}

// Module is a complete wasm module: imports, definitions, and the
// table/memory layout the ABI and reordering passes need visibility into.
type Module struct {
	Imports   []Import
	Functions []*Function
	Globals   []Global
	Exports   []Export
	Table     *Table
	Memory    *Memory
	Start     string
}

// NumImportedFuncs returns how many imports are function imports; these
// occupy function indices 0..n-1 ahead of every *Function in Functions.
func (m *Module) NumImportedFuncs() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Kind == ImportFunc {
			n++
		}
	}
	return n
}

// FuncIndex returns the final binary function index of Functions[pos],
// accounting for imported functions occupying the low indices.
func (m *Module) FuncIndex(pos int) uint32 {
	return uint32(m.NumImportedFuncs() + pos)
}

// FindFunction returns the function named name, or nil if none matches.
func (m *Module) FindFunction(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}
