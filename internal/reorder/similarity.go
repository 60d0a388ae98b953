package reorder

import "github.com/wasmforge/wopt/ir"

// similaritySort re-orders bucket (a slice of original function indices,
// already in primary-sort order) by greedy nearest-neighbor chaining over
// body-byte-histogram distance: starting from the bucket's first element as
// baseline, repeatedly accept the next function in primary order if its
// distance to the baseline is below SimilarSimilarity, or otherwise
// whichever remaining function is closest to the baseline, and advance the
// baseline to it. Runs of near-duplicate functions therefore keep their
// primary order.
func similaritySort(m *ir.Module, bucket []int) []int {
	if len(bucket) <= 1 {
		return bucket
	}

	profiles := make([]Profile, len(bucket))
	for i, idx := range bucket {
		profiles[i] = buildProfile(encodeBody(m.Functions[idx]))
	}

	used := make([]bool, len(bucket))
	result := make([]int, 0, len(bucket))
	result = append(result, bucket[0])
	used[0] = true
	baseline := 0

	for len(result) < len(bucket) {
		best := -1
		for i := range bucket {
			if !used[i] {
				best = i
				break
			}
		}
		if distance(profiles[baseline], profiles[best]) >= SimilarSimilarity {
			bestDist := 2.0 // distance is always <= 1
			for i := range bucket {
				if used[i] {
					continue
				}
				d := distance(profiles[baseline], profiles[i])
				if d < bestDist {
					bestDist = d
					best = i
				}
			}
		}
		result = append(result, bucket[best])
		used[best] = true
		baseline = best
	}
	return result
}
