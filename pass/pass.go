package pass

import "github.com/wasmforge/wopt/ir"

// Pass is one optimization stage. Run is called once per function (or once
// for the whole module, for passes that need cross-function visibility,
// e.g. reordering); ParallelSafe tells the scheduler whether it may call Run
// concurrently for different functions (spec 5).
type Pass interface {
	Name() string
	ParallelSafe() bool
	Run(fn *ir.Function, m *ir.Module) error
}

// Func adapts a plain function into a Pass, for passes with no setup state,
// mirroring the teacher's handler.Func adapter.
type Func struct {
	FuncName string
	Parallel bool
	RunFn    func(fn *ir.Function, m *ir.Module) error
}

func (f Func) Name() string        { return f.FuncName }
func (f Func) ParallelSafe() bool  { return f.Parallel }
func (f Func) Run(fn *ir.Function, m *ir.Module) error {
	return f.RunFn(fn, m)
}
