package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSizeClasses_Coverage tests that every size up to the largest pooled
// block maps to a class whose block covers it.
func TestSizeClasses_Coverage(t *testing.T) {
	for _, config := range []SizeClassConfig{ConfigFineGrained, ConfigBalanced, ConfigCoarse} {
		table := newSizeClassTable(config, config.MediumMax)
		require.Positive(t, table.numClasses(), config.Name)

		for size := 1; size <= table.largestBlock(); size++ {
			c := table.classFor(size)
			require.Less(t, c, table.numClasses(), "%s: size %d must be pooled", config.Name, size)
			require.GreaterOrEqual(t, table.blockSize(c), size,
				"%s: class block must cover the request", config.Name)
			if c > 0 {
				require.Less(t, table.blockSize(c-1), size,
					"%s: size %d should use the smallest covering class", config.Name, size)
			}
		}
	}
}

// TestSizeClasses_OversizeDetection tests the pooled/bypass boundary.
func TestSizeClasses_OversizeDetection(t *testing.T) {
	table := newSizeClassTable(ConfigBalanced, 256)

	assert.Equal(t, 256, table.largestBlock())
	assert.Equal(t, table.numClasses(), table.classFor(257))
	assert.Equal(t, table.numClasses(), table.classFor(1<<20))
}

// TestSizeClasses_BlockAlignment tests that every class block size keeps the
// pooled alignment guarantee.
func TestSizeClasses_BlockAlignment(t *testing.T) {
	for _, config := range []SizeClassConfig{ConfigFineGrained, ConfigBalanced, ConfigCoarse} {
		table := newSizeClassTable(config, config.MediumMax)
		for c := 0; c < table.numClasses(); c++ {
			assert.Zero(t, table.blockSize(c)%maxPoolAlign,
				"%s class %d block %d", config.Name, c, table.blockSize(c))
		}
	}
}

// TestSizeClasses_DegenerateConfigClamped tests that a hostile custom
// configuration still yields a finite, covering, aligned table.
func TestSizeClasses_DegenerateConfigClamped(t *testing.T) {
	config := SizeClassConfig{
		Name:           "Degenerate",
		SmallMin:       0,
		SmallMax:       64,
		SmallIncrement: 0,
		MediumMax:      256,
		GrowthFactor:   0,
	}
	table := newSizeClassTable(config, 256)

	require.Positive(t, table.numClasses())
	assert.Equal(t, 256, table.largestBlock())
	for c := 0; c < table.numClasses(); c++ {
		assert.Zero(t, table.blockSize(c)%maxPoolAlign, "class %d", c)
	}
	for c := 1; c < table.numClasses(); c++ {
		require.Greater(t, table.blockSize(c), table.blockSize(c-1))
	}
	for size := 1; size <= 256; size++ {
		c := table.classFor(size)
		require.Less(t, c, table.numClasses(), "size %d", size)
		require.GreaterOrEqual(t, table.blockSize(c), size)
	}
}

// TestSizeClasses_GeometricContinuesFromLinear tests that the first geometric
// class grows from the last emitted linear class, not from the SmallMax bound
// the linear loop never reaches.
func TestSizeClasses_GeometricContinuesFromLinear(t *testing.T) {
	table := newSizeClassTable(ConfigBalanced, ConfigBalanced.MediumMax)

	// Balanced linear classes run 8, 24, ... up to 504.
	last := 0
	for c := 0; c < table.numClasses(); c++ {
		if table.blockSize(c) <= ConfigBalanced.SmallMax {
			last = table.blockSize(c)
		}
	}
	require.Equal(t, 504, last)

	// ceil(504 * 1.5) rounded up to the pooled alignment.
	first := table.blockSize(table.classFor(last + 1))
	assert.Equal(t, 760, first)
}

// TestSizeClasses_MonotoneBlocks tests that block sizes strictly increase.
func TestSizeClasses_MonotoneBlocks(t *testing.T) {
	table := newSizeClassTable(ConfigCoarse, ConfigCoarse.MediumMax)
	for c := 1; c < table.numClasses(); c++ {
		assert.Greater(t, table.blockSize(c), table.blockSize(c-1))
	}
}
