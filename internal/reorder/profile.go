package reorder

import "sort"

// MaxHashes bounds the number of histogram buckets a Profile keeps,
// trimming to the most frequent entries once exceeded (spec 3).
const MaxHashes = 768

// Profile is a byte-histogram summary of a function body's encoded bytes,
// built from sliding windows of width 1 (weight 2) and width 2 (weight 1).
type Profile struct {
	Histogram map[uint32]int
	Total     int
}

const twoByteKeyBase = 1 << 16

func buildProfile(body []byte) Profile {
	hist := map[uint32]int{}
	for _, b := range body {
		hist[uint32(b)] += 2
	}
	for i := 0; i+1 < len(body); i++ {
		key := twoByteKeyBase + uint32(body[i])<<8 + uint32(body[i+1])
		hist[key]++
	}
	trimToMostFrequent(hist, MaxHashes)

	total := 0
	for _, c := range hist {
		total += c
	}
	return Profile{Histogram: hist, Total: total}
}

func trimToMostFrequent(hist map[uint32]int, limit int) {
	if len(hist) <= limit {
		return
	}
	type kv struct {
		k uint32
		c int
	}
	all := make([]kv, 0, len(hist))
	for k, c := range hist {
		all = append(all, kv{k, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].c != all[j].c {
			return all[i].c > all[j].c
		}
		return all[i].k < all[j].k
	})
	for _, e := range all[limit:] {
		delete(hist, e.k)
	}
}

// distance returns the L1 distance between a and b's histograms, normalized
// by the sum of their totals so the result lands in [0,1].
func distance(a, b Profile) float64 {
	denom := a.Total + b.Total
	if denom == 0 {
		return 0
	}
	seen := map[uint32]bool{}
	sum := 0
	for k, ca := range a.Histogram {
		cb := b.Histogram[k]
		sum += abs(ca - cb)
		seen[k] = true
	}
	for k, cb := range b.Histogram {
		if seen[k] {
			continue
		}
		sum += abs(cb)
	}
	return float64(sum) / float64(denom)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
