package mem

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTracker_Forwarding tests that calls pass through unchanged and are
// observed on the way down.
func TestTracker_Forwarding(t *testing.T) {
	var counts CountingSink
	tr := NewTracker("probe", Heap(), &counts)

	p, err := tr.Allocate(64, 8)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.EqualValues(t, 1, counts.Allocs.Load())
	assert.EqualValues(t, 64, counts.AllocBytes.Load())

	require.NoError(t, tr.Deallocate(p, 64, 8))
	assert.EqualValues(t, 1, counts.Deallocs.Load())
	assert.EqualValues(t, 64, counts.DeallocBytes.Load())
}

// TestTracker_PropagatesFailure tests that failures ascend unchanged while
// the attempt is still recorded.
func TestTracker_PropagatesFailure(t *testing.T) {
	var counts CountingSink
	tr := NewTracker("probe", Null(), &counts)

	_, err := tr.Allocate(64, 8)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.EqualValues(t, 1, counts.Allocs.Load(), "the attempt is observable")
}

// TestTracker_EqualityLaw tests the decorator equality semantics: equal
// labels over equal upstreams interoperate; different labels never do.
func TestTracker_EqualityLaw(t *testing.T) {
	u1, u2 := Heap(), Heap()
	require.True(t, u1.IsEqual(u2))

	a := NewTracker("pool", u1, nil)
	b := NewTracker("pool", u2, nil)
	c := NewTracker("other", u1, nil)

	assert.True(t, a.IsEqual(b))
	assert.True(t, b.IsEqual(a))
	assert.False(t, a.IsEqual(c), "labels differ, resources stay distinct")
	assert.False(t, c.IsEqual(a))
	assert.False(t, a.IsEqual(u1), "a tracker never equals a bare resource")
}

// TestTracker_EqualityTransitive tests that equality recurses through nested
// decorators.
func TestTracker_EqualityTransitive(t *testing.T) {
	inner1 := NewTracker("inner", Heap(), nil)
	inner2 := NewTracker("inner", Heap(), nil)

	outer1 := NewTracker("outer", inner1, nil)
	outer2 := NewTracker("outer", inner2, nil)
	assert.True(t, outer1.IsEqual(outer2))

	mixed := NewTracker("outer", NewTracker("else", Heap(), nil), nil)
	assert.False(t, outer1.IsEqual(mixed), "inner labels differ")
}

// TestTracker_EqualityOverDistinctPools tests that identity-equal upstreams
// gate decorator equality.
func TestTracker_EqualityOverDistinctPools(t *testing.T) {
	p1 := NewPool(Heap(), nil)
	p2 := NewPool(Heap(), nil)
	defer p1.Release() //nolint:errcheck
	defer p2.Release() //nolint:errcheck

	a := NewTracker("pool", p1, nil)
	b := NewTracker("pool", p2, nil)
	same := NewTracker("pool", p1, nil)

	assert.False(t, a.IsEqual(b), "distinct pools are never equal")
	assert.True(t, a.IsEqual(same))
}

// TestTracker_WriterSink tests the console sink line format.
func TestTracker_WriterSink(t *testing.T) {
	var out bytes.Buffer
	tr := NewTracker("keeppool", Heap(), WriterSink(&out))

	p, err := tr.Allocate(100, 8)
	require.NoError(t, err)
	require.NoError(t, tr.Deallocate(p, 100, 8))

	assert.Equal(t,
		"keeppool allocate 100 bytes (align 8)\n"+
			"keeppool deallocate 100 bytes (align 8)\n",
		out.String())
}

// TestTracker_NilSink tests that a tracker without a sink still forwards.
func TestTracker_NilSink(t *testing.T) {
	tr := NewTracker("silent", Heap(), nil)
	p, err := tr.Allocate(32, 8)
	require.NoError(t, err)
	require.NoError(t, tr.Deallocate(p, 32, 8))
}

// TestOp_String tests the operation labels used by sinks.
func TestOp_String(t *testing.T) {
	assert.Equal(t, "allocate", OpAllocate.String())
	assert.Equal(t, "deallocate", OpDeallocate.String())
	assert.Equal(t, "unknown", Op(0).String())
}
