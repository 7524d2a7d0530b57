package mem

import (
	"fmt"
	"unsafe"
)

const (
	// maxPoolAlign is the strongest alignment the pooled path guarantees.
	// Requests wanting more bypass the pool and go straight to upstream.
	maxPoolAlign = 8

	// chunkAlign is the alignment requested for upstream chunks. A multiple
	// of maxPoolAlign, so every carved block is pool-aligned.
	chunkAlign = 16

	// defaultMaxBlocksPerChunk bounds how many blocks one upstream chunk
	// is carved into when the caller does not say.
	defaultMaxBlocksPerChunk = 32

	// maxBlocksPerChunkLimit is the implementation cap on MaxBlocksPerChunk.
	// The configured value is advisory; anything above this is clamped.
	maxBlocksPerChunkLimit = 8192

	// defaultLargestPoolBlock bounds pooled block sizes when the caller
	// does not say. Larger requests pass through to upstream.
	defaultLargestPoolBlock = 4096
)

// PoolOptions configures a Pool. Zero values select the documented defaults.
// MaxBlocksPerChunk and LargestRequiredPoolBlock are advisory: values above
// the implementation caps are clamped, and LargestRequiredPoolBlock is
// rounded up to the pooled alignment.
type PoolOptions struct {
	// MaxBlocksPerChunk is the number of blocks carved from each upstream
	// chunk. Default 32, capped at 8192.
	MaxBlocksPerChunk int

	// LargestRequiredPoolBlock is the largest request served from the
	// pool. Default 4096.
	LargestRequiredPoolBlock int

	// SizeClasses selects the class bucketing. nil means
	// DefaultSizeClasses.
	SizeClasses *SizeClassConfig
}

// poolChunk records one upstream chunk so it can be returned at Release.
type poolChunk struct {
	base unsafe.Pointer
	size int
}

// Pool is a size-classed freelist allocator. Freed blocks are retained per
// class and reused, so repeated allocate/free cycles of same-shaped elements
// draw from the same chunks and stay close in memory. Chunks come from
// upstream and are only returned at Release. Not safe for concurrent use;
// see SyncPool.
type Pool struct {
	upstream Resource
	table    *sizeClassTable

	free   [][]unsafe.Pointer // per-class freelist stacks
	chunks []poolChunk

	blocksPerChunk int
	largest        int

	released bool
	stats    PoolStats
}

// NewPool creates a pool drawing chunks from upstream. A nil upstream means
// Default(); nil opts means defaults.
func NewPool(upstream Resource, opts *PoolOptions) *Pool {
	if upstream == nil {
		upstream = Default()
	}
	blocks, largest := defaultMaxBlocksPerChunk, defaultLargestPoolBlock
	config := DefaultSizeClasses
	if opts != nil {
		if opts.MaxBlocksPerChunk > 0 {
			blocks = opts.MaxBlocksPerChunk
		}
		if opts.LargestRequiredPoolBlock > 0 {
			largest = opts.LargestRequiredPoolBlock
		}
		if opts.SizeClasses != nil {
			config = *opts.SizeClasses
		}
	}
	if blocks > maxBlocksPerChunkLimit {
		blocks = maxBlocksPerChunkLimit
	}
	if largest%maxPoolAlign != 0 {
		largest += maxPoolAlign - largest%maxPoolAlign
	}
	table := newSizeClassTable(config, largest)
	return &Pool{
		upstream:       upstream,
		table:          table,
		free:           make([][]unsafe.Pointer, table.numClasses()),
		blocksPerChunk: blocks,
		largest:        table.largestBlock(),
	}
}

// Allocate implements Resource. Oversized or over-aligned requests bypass
// pooling; otherwise a block is popped from the class freelist, refilling it
// from upstream only when empty.
func (p *Pool) Allocate(size, align int) (unsafe.Pointer, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	if p.released {
		return nil, ErrReleased
	}
	if size > p.largest || align > maxPoolAlign {
		p.stats.OversizeAllocs++
		return p.upstream.Allocate(size, align)
	}
	c := p.table.classFor(size)
	if len(p.free[c]) == 0 {
		if err := p.refill(c); err != nil {
			return nil, err
		}
	}
	s := p.free[c]
	blk := s[len(s)-1]
	p.free[c] = s[:len(s)-1]
	return blk, nil
}

// refill carves one fresh upstream chunk into blocks for class c.
func (p *Pool) refill(c int) error {
	bs := p.table.blockSize(c)
	size := bs * p.blocksPerChunk
	base, err := p.upstream.Allocate(size, chunkAlign)
	if err != nil {
		return fmt.Errorf("mem: pool refill: %w", err)
	}
	p.chunks = append(p.chunks, poolChunk{base: base, size: size})
	p.stats.Chunks++
	for i := p.blocksPerChunk - 1; i >= 0; i-- {
		p.free[c] = append(p.free[c], unsafe.Add(base, i*bs))
	}
	return nil
}

// Deallocate implements Resource. Pooled blocks go back on their class
// freelist for reuse; they are not returned upstream until Release. Oversized
// blocks are forwarded straight back to upstream.
func (p *Pool) Deallocate(ptr unsafe.Pointer, size, align int) error {
	if err := checkRequest(size, align); err != nil {
		return err
	}
	if p.released {
		return ErrReleased
	}
	if size > p.largest || align > maxPoolAlign {
		return p.upstream.Deallocate(ptr, size, align)
	}
	if !p.owns(ptr) {
		return fmt.Errorf("mem: pool: pointer not carved from this pool: %w", ErrMismatch)
	}
	c := p.table.classFor(size)
	p.free[c] = append(p.free[c], ptr)
	return nil
}

// owns reports whether ptr lies inside one of the pool's chunks.
func (p *Pool) owns(ptr unsafe.Pointer) bool {
	addr := uintptr(ptr)
	for _, ch := range p.chunks {
		base := uintptr(ch.base)
		if addr >= base && addr < base+uintptr(ch.size) {
			return true
		}
	}
	return false
}

// IsEqual implements Resource. Pools are equal only to themselves.
func (p *Pool) IsEqual(other Resource) bool {
	o, ok := other.(*Pool)
	return ok && o == p
}

// Release returns every chunk to upstream exactly once and drops the
// freelists. Safe to call more than once; any use after the first Release
// fails with ErrReleased.
func (p *Pool) Release() error {
	if p.released {
		return nil
	}
	var first error
	for _, ch := range p.chunks {
		if err := p.upstream.Deallocate(ch.base, ch.size, chunkAlign); err != nil && first == nil {
			first = err
		}
	}
	p.chunks = nil
	p.free = nil
	p.released = true
	return first
}

// PoolStats is a point-in-time snapshot of a pool.
type PoolStats struct {
	Chunks         int // upstream chunks obtained so far
	FreeBlocks     int // blocks currently sitting on freelists
	OversizeAllocs int // requests that bypassed pooling
}

// Stats returns a snapshot of the pool's bookkeeping.
func (p *Pool) Stats() PoolStats {
	s := p.stats
	for _, fl := range p.free {
		s.FreeBlocks += len(fl)
	}
	return s
}

var _ Resource = (*Pool)(nil)
