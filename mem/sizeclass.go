package mem

import (
	"math"

	"github.com/joshuapare/memkit/internal/memutil"
)

// SizeClassConfig defines how pooled allocation sizes are bucketed into
// classes. Different configurations trade lookup granularity against internal
// fragmentation. Fields are advisory: zero, negative, or misaligned values
// are clamped to safe equivalents when the table is built.
type SizeClassConfig struct {
	// Name for this configuration (for stats and benchmarking).
	Name string

	// Small allocation settings (linear increments).
	SmallMin       int // smallest block size (typically 8)
	SmallMax       int // upper bound of the linear range (typically 256-512)
	SmallIncrement int // step between small classes (8, 16, or 32)

	// Medium allocation settings (geometric growth up to the largest
	// pooled block).
	MediumMax    int     // largest pooled block size
	GrowthFactor float64 // growth factor between medium classes (1.5, 2.0)
}

// Predefined configurations.
var (
	// ConfigFineGrained: many small classes, good for varied workloads.
	ConfigFineGrained = SizeClassConfig{
		Name:           "FineGrained",
		SmallMin:       8,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      4096,
		GrowthFactor:   1.5,
	}

	// ConfigBalanced: balance between class count and granularity.
	ConfigBalanced = SizeClassConfig{
		Name:           "Balanced",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      4096,
		GrowthFactor:   1.5,
	}

	// ConfigCoarse: few classes, fast lookup, more internal fragmentation.
	ConfigCoarse = SizeClassConfig{
		Name:           "Coarse",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      4096,
		GrowthFactor:   2.0,
	}

	// DefaultSizeClasses is used when a pool is created without an
	// explicit configuration.
	DefaultSizeClasses = ConfigBalanced
)

// Classes returns the block sizes the configuration yields for a pool whose
// largest required block is largest. Exposed for inspection and tooling.
func (c SizeClassConfig) Classes(largest int) []int {
	t := newSizeClassTable(c, largest)
	return append([]int(nil), t.blockSizes...)
}

// sizeClassTable holds the computed block size for each class. Block sizes
// double as the inclusive upper bound of the class.
type sizeClassTable struct {
	config     SizeClassConfig
	blockSizes []int
}

// newSizeClassTable computes class block sizes from config, capping the table
// at largest (the pool's largest required block).
func newSizeClassTable(config SizeClassConfig, largest int) *sizeClassTable {
	// Custom configurations are advisory like the pool limits: degenerate
	// values are clamped so construction always terminates and carved
	// blocks keep the pooled alignment.
	if config.SmallMin <= 0 {
		config.SmallMin = maxPoolAlign
	}
	config.SmallMin = memutil.AlignUp(config.SmallMin, maxPoolAlign)
	if config.SmallIncrement <= 0 {
		config.SmallIncrement = maxPoolAlign
	}
	config.SmallIncrement = memutil.AlignUp(config.SmallIncrement, maxPoolAlign)
	if config.GrowthFactor < 1 {
		config.GrowthFactor = 1
	}
	t := &sizeClassTable{config: config}

	smallMax := config.SmallMax
	if smallMax > largest {
		smallMax = largest
	}
	for size := config.SmallMin; size <= smallMax; size += config.SmallIncrement {
		t.blockSizes = append(t.blockSizes, size)
	}

	// Geometric classes above the linear range, growing from the last
	// linear class so mid-range sizes get the smallest covering block.
	// Block sizes stay multiples of the pooled alignment so carved blocks
	// remain aligned.
	size := smallMax
	if n := len(t.blockSizes); n > 0 {
		size = t.blockSizes[n-1]
	}
	for size < largest {
		next := int(math.Ceil(float64(size) * config.GrowthFactor))
		next = memutil.AlignUp(next, maxPoolAlign)
		if next <= size {
			next = size + maxPoolAlign
		}
		if next > largest {
			next = largest
		}
		t.blockSizes = append(t.blockSizes, next)
		size = next
	}

	// The table always tops out at exactly the largest pooled block so the
	// pooled/bypass boundary matches the configured limit.
	if n := len(t.blockSizes); n == 0 || t.blockSizes[n-1] < largest {
		t.blockSizes = append(t.blockSizes, largest)
	}
	return t
}

// classFor returns the index of the smallest class covering size, or
// len(blockSizes) when size exceeds the largest pooled block.
func (t *sizeClassTable) classFor(size int) int {
	lo, hi := 0, len(t.blockSizes)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.blockSizes[mid] {
			if mid == 0 || size > t.blockSizes[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return len(t.blockSizes)
}

// blockSize returns the block size handed out for class c.
func (t *sizeClassTable) blockSize(c int) int {
	return t.blockSizes[c]
}

// numClasses returns the number of pooled classes.
func (t *sizeClassTable) numClasses() int {
	return len(t.blockSizes)
}

// largestBlock returns the largest pooled block size.
func (t *sizeClassTable) largestBlock() int {
	if len(t.blockSizes) == 0 {
		return 0
	}
	return t.blockSizes[len(t.blockSizes)-1]
}
