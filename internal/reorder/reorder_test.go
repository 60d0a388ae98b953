package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmforge/wopt/ir"
)

func callTo(target string) *ir.Function {
	return &ir.Function{Body: &ir.Drop{Value: &ir.Call{Target: target, ResultType: ir.ValI32}}}
}

func TestReorderSortsByDescendingCallCount(t *testing.T) {
	hot := &ir.Function{Name: "hot", Body: &ir.Nop{}}
	cold := &ir.Function{Name: "cold", Body: &ir.Nop{}}
	callerA := callTo("hot")
	callerA.Name = "callerA"
	callerB := callTo("hot")
	callerB.Name = "callerB"

	m := &ir.Module{Functions: []*ir.Function{cold, hot, callerA, callerB}}

	require.NoError(t, Reorder(nil, m))

	assert.Equal(t, "hot", m.Functions[0].Name)
}

func TestReorderIsAPermutation(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	var fns []*ir.Function
	for _, n := range names {
		fns = append(fns, &ir.Function{Name: n, Body: &ir.Nop{}})
	}
	m := &ir.Module{Functions: fns}

	require.NoError(t, Reorder(nil, m))

	assert.Len(t, m.Functions, len(names))
	seen := map[string]bool{}
	for _, fn := range m.Functions {
		seen[fn.Name] = true
	}
	for _, n := range names {
		assert.True(t, seen[n], "function %q should still be present", n)
	}
}

func TestBucketizeRespectsBoundaries(t *testing.T) {
	order := make([]int, 200)
	for i := range order {
		order[i] = i
	}
	buckets := bucketize(order, 0)
	require.True(t, len(buckets) >= 2)
	assert.Equal(t, 128, len(buckets[0]))
}
