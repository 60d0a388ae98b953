// Package schedule fans a Pass out across a module's functions, running
// parallel-safe passes concurrently, collecting non-fatal diagnostics under a
// mutex and aborting the whole batch on the first fatal diagnostic (spec 5).
package schedule

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wasmforge/wopt/ir"
	"github.com/wasmforge/wopt/pass"
)

// RunFunctionParallel runs p once per function in m. Parallel-safe passes
// run up to GOMAXPROCS at a time via an errgroup; the first fatal
// diagnostic cancels the group and is returned. Non-fatal
// (OptimizationAborted) diagnostics leave that function passing through
// unmodified; they're aggregated with multierr and logged once the batch
// finishes, rather than dropped one at a time.
func RunFunctionParallel(log *zap.Logger, m *ir.Module, p pass.Pass) error {
	var mu sync.Mutex
	var warnings error

	recordWarning := func(diag *pass.Diagnostic) {
		mu.Lock()
		warnings = multierr.Append(warnings, diag)
		mu.Unlock()
	}

	if !p.ParallelSafe() {
		for _, fn := range m.Functions {
			if err := runOne(log, p, fn, m, recordWarning); err != nil {
				return err
			}
		}
		logWarnings(log, p, warnings)
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(1, runtime.GOMAXPROCS(0)))

	for _, fn := range m.Functions {
		fn := fn
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return runOne(log, p, fn, m, recordWarning)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logWarnings(log, p, warnings)
	return nil
}

func runOne(log *zap.Logger, p pass.Pass, fn *ir.Function, m *ir.Module, recordWarning func(*pass.Diagnostic)) error {
	err := p.Run(fn, m)
	if err == nil {
		return nil
	}
	diag, ok := err.(*pass.Diagnostic)
	if !ok {
		return err
	}
	if diag.Fatal() {
		log.Error("pass failed fatally", zap.String("pass", p.Name()), zap.String("func", fn.Name), zap.Error(diag))
		return diag
	}
	recordWarning(diag)
	return nil
}

func logWarnings(log *zap.Logger, p pass.Pass, warnings error) {
	if warnings == nil {
		return
	}
	log.Warn("some functions were skipped", zap.String("pass", p.Name()), zap.Int("count", len(multierr.Errors(warnings))), zap.Error(warnings))
}
