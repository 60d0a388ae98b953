package liveness

import (
	"github.com/wasmforge/wopt/internal/cfg"
	"github.com/wasmforge/wopt/ir"
)

// Analysis bundles Phase A and Phase B results for one function.
type Analysis struct {
	Index    *IndexLiveness
	Reaching *Result
}

// Analyze runs both liveness phases over g, a CFG already built for fn.
func Analyze(fn *ir.Function, g *cfg.Graph) *Analysis {
	return &Analysis{
		Index:    ComputeIndexLiveness(g),
		Reaching: ComputeReaching(g, fn.NumLocals()),
	}
}
