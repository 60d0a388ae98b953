// Package reorder sorts a module's owned functions by static use count, then
// groups them into LEB-index buckets and resorts within each bucket by
// body-byte-histogram similarity, to shrink both call-site LEBs
// and gzip distance between neighbors (spec 4.10, grounded on
// ReorderFunctions.cpp's CallCountScanner for the primary sort).
package reorder

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wasmforge/wopt/ir"
)

// SimilarSimilarity is the distance threshold below which two neighboring
// functions are treated as already adjacent enough, so the secondary sort
// accepts them as a run rather than reordering them (spec 9).
const SimilarSimilarity = 0.05

// Reorder sorts m.Functions in place. log may be nil.
func Reorder(log *zap.Logger, m *ir.Module) error {
	if log == nil {
		log = zap.NewNop()
	}
	n := len(m.Functions)
	if n == 0 {
		return nil
	}

	nameIdx := make(map[string]int, n)
	originalIndex := make(map[string]int, n)
	for i, fn := range m.Functions {
		nameIdx[fn.Name] = i
		originalIndex[fn.Name] = i
	}

	counts := make([]atomic.Int64, n)
	if err := scanCallCounts(m, nameIdx, counts); err != nil {
		return err
	}
	applyGlobalUseCounts(m, nameIdx, counts)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := counts[order[i]].Load(), counts[order[j]].Load()
		if ci != cj {
			return ci > cj
		}
		return originalIndex[m.Functions[order[i]].Name] < originalIndex[m.Functions[order[j]].Name]
	})

	numImported := m.NumImportedFuncs()
	buckets := bucketize(order, numImported)

	final := make([]int, 0, n)
	for _, bucket := range buckets {
		final = append(final, similaritySort(m, bucket)...)
	}

	newFuncs := make([]*ir.Function, n)
	for pos, origIdx := range final {
		newFuncs[pos] = m.Functions[origIdx]
	}
	m.Functions = newFuncs

	log.Info("reordered functions", zap.Int("count", n), zap.Int("buckets", len(buckets)))
	return nil
}

// scanCallCounts function-parallel scans every body for Call targets,
// incrementing a preallocated atomic slot per owned target so concurrent
// scanners never contend on map insertion (spec 5's concurrency model).
func scanCallCounts(m *ir.Module, nameIdx map[string]int, counts []atomic.Int64) error {
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
			walkCalls(fn.Body, func(target string) {
				if idx, ok := nameIdx[target]; ok {
					counts[idx].Add(1)
				}
			})
			return nil
		})
	}
	return g.Wait()
}

func walkCalls(e ir.Expression, visit func(target string)) {
	if e == nil {
		return
	}
	if c, ok := e.(*ir.Call); ok {
		visit(c.Target)
	}
	for _, c := range e.Children() {
		if c != nil && *c != nil {
			walkCalls(*c, visit)
		}
	}
}

// applyGlobalUseCounts adds the start-function, export, and table-segment
// bonuses, run sequentially since it touches shared counters without the
// per-function isolation the call scan had.
func applyGlobalUseCounts(m *ir.Module, nameIdx map[string]int, counts []atomic.Int64) {
	if m.Start != "" {
		if idx, ok := nameIdx[m.Start]; ok {
			counts[idx].Add(1)
		}
	}
	numImported := m.NumImportedFuncs()
	for _, exp := range m.Exports {
		if exp.Kind != ir.ImportFunc {
			continue
		}
		pos := int(exp.Index) - numImported
		if pos >= 0 && pos < len(m.Functions) {
			counts[pos].Add(1)
		}
	}
	if m.Table != nil {
		for _, seg := range m.Table.Segments {
			for _, name := range seg.Funcs {
				if idx, ok := nameIdx[name]; ok {
					counts[idx].Add(1)
				}
			}
		}
	}
}

// bucketize partitions order (a permutation of function positions, already
// primary-sorted) into contiguous LEB-index buckets based on each
// function's final absolute index (position + numImported). Bucket k's
// half-open range is [sum_{i<k} 128^(i+1), sum_{i<=k} 128^(i+1)).
func bucketize(order []int, numImported int) [][]int {
	var buckets [][]int
	boundary := int64(0)
	width := int64(128)
	var cur []int
	for pos, origIdx := range order {
		abs := int64(pos + numImported)
		for abs >= boundary+width {
			boundary += width
			width *= 128
			buckets = append(buckets, cur)
			cur = nil
		}
		cur = append(cur, origIdx)
	}
	if len(cur) > 0 {
		buckets = append(buckets, cur)
	}
	return buckets
}
