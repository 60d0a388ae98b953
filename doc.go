// Package wopt is a WebAssembly bytecode optimizer core: the per-function
// dataflow analyses and rewrites that shrink a structured wasm module and
// improve its binary compressibility, plus the module-wide passes that
// operate across functions.
//
// # Architecture Overview
//
// The library is organized leaf-first, each package depending only on the
// ones above it:
//
//	wopt/                  Root package: Optimize, the pipeline entry point
//	├── ir/                Structured expression tree, Module/Function containers
//	├── pass/              Pass interface and the Diagnostic error model
//	├── schedule/           Function-parallel pass fan-out
//	└── internal/
//	    ├── support/        IndexSet, SymmetricPairStore, WorkSet
//	    ├── cfg/            Basic-block graph construction from structured IR
//	    ├── liveness/       Index liveness and set-reaching-definitions
//	    ├── localgraph/     GetSets/SetGets/isSSA queries
//	    ├── equivalence/    Value-equivalence classes (sets, constants, merges)
//	    ├── coalesce/       Interference, copy weights, greedy + genetic coloring
//	    ├── rse/            Redundant-Set Elimination
//	    ├── copyprop/       SSA copy-chain propagation
//	    ├── effects/        Conservative per-expression effect sets
//	    ├── delicm/         Sinking a set into a deeper loop scope
//	    ├── reorder/        Call-count + LEB-bucket + similarity function sort
//	    ├── sizeest/        Lower-bound encoded-size estimation
//	    └── abi/            JS/i64 scratch-global legalization
//
// # Quick Start
//
//	log, _ := zap.NewProduction()
//	if err := wopt.Optimize(log, module); err != nil {
//	    log.Fatal("optimize failed", zap.Error(err))
//	}
//
// Optimize runs every per-function pass in the order the dataflow substrate
// requires (CFG, then liveness, then equivalence, then coalescing, then the
// small passes that share it), followed by the module-wide function
// reordering and ABI legalization passes.
//
// # Thread Safety
//
// Optimize is not safe to call concurrently on the same Module. Within one
// call, parallel-safe passes run one goroutine per function.
package wopt
