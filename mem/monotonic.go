package mem

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/memkit/internal/memutil"
)

const (
	// blockAlign is the alignment requested for upstream-obtained blocks.
	blockAlign = 16

	// defaultMinBlockSize is the smallest block requested from upstream.
	defaultMinBlockSize = 1024

	// defaultGrowthFactor multiplies the previous upstream block size when
	// the arena grows.
	defaultGrowthFactor = 2.0
)

// MonotonicOptions configures a Monotonic arena's growth policy.
type MonotonicOptions struct {
	// GrowthFactor scales the next upstream block relative to the previous
	// one. Values below 1 are treated as 1 (constant-size growth).
	// Default 2.0.
	GrowthFactor float64

	// MinBlockSize is the smallest block the arena will request from
	// upstream. Default 1024.
	MinBlockSize int
}

// memBlock is one link of an arena's block chain.
type memBlock struct {
	base  unsafe.Pointer
	size  int
	off   int // bump offset, only ever increases
	align int // alignment the block was requested with
	owned bool
	next  *memBlock
}

// bump claims size bytes at the given alignment from the block, or reports
// that the block cannot fit the request.
func (b *memBlock) bump(size, align int) (unsafe.Pointer, bool) {
	off := b.off + memutil.AlignPad(uintptr(b.base)+uintptr(b.off), align)
	if off+size > b.size {
		return nil, false
	}
	b.off = off + size
	return unsafe.Add(b.base, off), true
}

// Monotonic is a bump-pointer arena over a chain of fixed blocks. Allocation
// is O(1); Deallocate is a no-op and memory is reclaimed only when the whole
// arena is released. Not safe for concurrent use.
type Monotonic struct {
	head     *memBlock
	upstream Resource

	nextSize int // size of the next upstream block
	factor   float64
	minBlock int

	released bool
}

// NewMonotonic creates an arena that obtains its blocks from upstream,
// starting with a block of at least initial bytes on first use. A nil
// upstream means Default(); nil opts means defaults.
func NewMonotonic(initial int, upstream Resource, opts *MonotonicOptions) *Monotonic {
	m := newMonotonic(upstream, opts)
	if initial > m.nextSize {
		m.nextSize = initial
	}
	return m
}

// NewMonotonicBuffer creates an arena whose first block is the caller's
// buffer. The buffer is never released to upstream. Wire upstream to Null()
// to fail hard once the buffer is exhausted instead of growing.
func NewMonotonicBuffer(buf []byte, upstream Resource, opts *MonotonicOptions) *Monotonic {
	m := newMonotonic(upstream, opts)
	if len(buf) > 0 {
		m.head = &memBlock{base: unsafe.Pointer(&buf[0]), size: len(buf)}
		if next := int(float64(len(buf)) * m.factor); next > m.nextSize {
			m.nextSize = next
		}
	}
	return m
}

func newMonotonic(upstream Resource, opts *MonotonicOptions) *Monotonic {
	if upstream == nil {
		upstream = Default()
	}
	factor, minBlock := defaultGrowthFactor, defaultMinBlockSize
	if opts != nil {
		if opts.GrowthFactor >= 1 {
			factor = opts.GrowthFactor
		}
		if opts.MinBlockSize > 0 {
			minBlock = opts.MinBlockSize
		}
	}
	return &Monotonic{
		upstream: upstream,
		nextSize: minBlock,
		factor:   factor,
		minBlock: minBlock,
	}
}

// Allocate implements Resource. The current block's offset is aligned and
// advanced; on exhaustion a new block is pulled from upstream and the bump
// retried there (which always succeeds by construction).
func (m *Monotonic) Allocate(size, align int) (unsafe.Pointer, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	if m.released {
		return nil, ErrReleased
	}
	if b := m.head; b != nil {
		if p, ok := b.bump(size, align); ok {
			return p, nil
		}
	}
	if err := m.grow(size + align); err != nil {
		return nil, err
	}
	p, _ := m.head.bump(size, align)
	return p, nil
}

// grow pushes a fresh upstream block to the front of the chain. need is the
// worst-case footprint of the allocation that triggered growth.
func (m *Monotonic) grow(need int) error {
	size := m.nextSize
	if size < need {
		size = need
	}
	if size < m.minBlock {
		size = m.minBlock
	}
	base, err := m.upstream.Allocate(size, blockAlign)
	if err != nil {
		return fmt.Errorf("mem: monotonic grow: %w", err)
	}
	m.head = &memBlock{base: base, size: size, align: blockAlign, owned: true, next: m.head}
	m.nextSize = int(float64(size) * m.factor)
	return nil
}

// Deallocate implements Resource as a no-op: individual blocks are never
// reclaimed mid-lifetime. This is the deliberate trade-off that keeps
// allocation O(1); memory comes back only at Release.
func (m *Monotonic) Deallocate(p unsafe.Pointer, size, align int) error {
	return nil
}

// IsEqual implements Resource. Arenas are equal only to themselves.
func (m *Monotonic) IsEqual(other Resource) bool {
	o, ok := other.(*Monotonic)
	return ok && o == m
}

// Release returns every upstream-obtained block in one pass. Caller-supplied
// buffers stay with the caller. Safe to call more than once; any use after
// the first Release fails with ErrReleased.
func (m *Monotonic) Release() error {
	if m.released {
		return nil
	}
	var first error
	for b := m.head; b != nil; b = b.next {
		if !b.owned {
			continue
		}
		if err := m.upstream.Deallocate(b.base, b.size, b.align); err != nil && first == nil {
			first = err
		}
	}
	m.head = nil
	m.released = true
	return first
}

// MonotonicStats is a point-in-time snapshot of an arena.
type MonotonicStats struct {
	InUse    int // bytes claimed across all blocks, including alignment pad
	Capacity int // total bytes across all blocks
	Blocks   int // blocks in the chain
}

// Stats returns a snapshot of the arena's block chain.
func (m *Monotonic) Stats() MonotonicStats {
	var s MonotonicStats
	for b := m.head; b != nil; b = b.next {
		s.InUse += b.off
		s.Capacity += b.size
		s.Blocks++
	}
	return s
}

var _ Resource = (*Monotonic)(nil)
