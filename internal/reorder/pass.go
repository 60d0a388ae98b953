package reorder

import (
	"go.uber.org/zap"

	"github.com/wasmforge/wopt/ir"
)

// Pass adapts Reorder to the module-wide pass shape. It is not
// function-parallel-safe: it mutates the shared Functions slice.
type Pass struct {
	Log *zap.Logger
}

func New(log *zap.Logger) *Pass { return &Pass{Log: log} }

func (*Pass) Name() string       { return "reorder-functions" }
func (*Pass) ParallelSafe() bool { return false }

// Run ignores fn; reordering operates on the whole module, not a single
// function. The scheduler calls Run once per function for every pass, so
// this re-sorts on each call — harmless, since re-sorting an
// already-primary-sorted, already-bucketed list by the same counts
// reproduces the same order.
func (p *Pass) Run(_ *ir.Function, m *ir.Module) error {
	return Reorder(p.Log, m)
}
