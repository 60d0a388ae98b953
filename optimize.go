package wopt

import (
	"go.uber.org/zap"

	"github.com/wasmforge/wopt/internal/abi"
	"github.com/wasmforge/wopt/internal/coalesce"
	"github.com/wasmforge/wopt/internal/copyprop"
	"github.com/wasmforge/wopt/internal/delicm"
	"github.com/wasmforge/wopt/internal/reorder"
	"github.com/wasmforge/wopt/internal/rse"
	"github.com/wasmforge/wopt/internal/sizeest"
	"github.com/wasmforge/wopt/ir"
	"github.com/wasmforge/wopt/pass"
	"github.com/wasmforge/wopt/schedule"
)

// Optimize runs the full pipeline over m: per-function passes first (each
// one rebuilding the CFG/liveness/equivalence substrate it needs), then the
// module-wide passes that see every function at once.
func Optimize(log *zap.Logger, m *ir.Module) error {
	if log == nil {
		log = zap.NewNop()
	}

	perFunction := []pass.Pass{
		coalesce.New(coalesce.Config{}),
		rse.New(),
		copyprop.New(),
		delicm.New(),
	}
	for _, p := range perFunction {
		if err := schedule.RunFunctionParallel(log, m, p); err != nil {
			return err
		}
	}

	if err := reorder.Reorder(log, m); err != nil {
		return err
	}
	if err := abi.Legalize(m); err != nil {
		return err
	}

	logEstimatedSize(log, m)
	return nil
}

func logEstimatedSize(log *zap.Logger, m *ir.Module) {
	total := 0
	for _, fn := range m.Functions {
		total += sizeest.Estimate(fn.Body)
	}
	log.Info("estimated module body size", zap.Int("bytes", total), zap.Int("functions", len(m.Functions)))
}
