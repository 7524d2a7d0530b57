package mem

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/memkit/internal/memutil"
)

// heapBlock records one live heap allocation. The backing slice is retained
// here so the garbage collector keeps the block alive until Deallocate.
type heapBlock struct {
	buf   []byte
	size  int
	align int
}

// heapResource allocates from the Go heap. It is the initial process default
// and the usual terminal of a resource chain. Safe for concurrent use.
type heapResource struct {
	mu   sync.Mutex
	live map[unsafe.Pointer]heapBlock
}

var heapRes = &heapResource{live: make(map[unsafe.Pointer]heapBlock)}

// Heap returns the process-wide heap-backed resource.
func Heap() Resource {
	return heapRes
}

// Allocate implements Resource.
func (h *heapResource) Allocate(size, align int) (unsafe.Pointer, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	// The Go allocator places tiny odd-sized slices on 1-, 2- or 4-byte
	// boundaries, so over-allocate and align inside the slice for every
	// request beyond byte alignment.
	pad := 0
	if align > 1 {
		pad = align - 1
	}
	buf := make([]byte, size+pad)
	p := unsafe.Pointer(&buf[0])
	if pad > 0 {
		p = memutil.AlignPointer(p, align)
	}
	h.mu.Lock()
	h.live[p] = heapBlock{buf: buf, size: size, align: align}
	h.mu.Unlock()
	return p, nil
}

// Deallocate implements Resource. Dropping the retained slice hands the block
// back to the garbage collector.
func (h *heapResource) Deallocate(p unsafe.Pointer, size, align int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	blk, ok := h.live[p]
	if !ok {
		return fmt.Errorf("mem: heap: unknown pointer: %w", ErrMismatch)
	}
	if blk.size != size || blk.align != align {
		return fmt.Errorf("mem: heap: allocated (size=%d align=%d), freed (size=%d align=%d): %w",
			blk.size, blk.align, size, align, ErrMismatch)
	}
	delete(h.live, p)
	return nil
}

// IsEqual implements Resource. Heap resources all draw from the same Go heap,
// so any of them may free another's blocks.
func (h *heapResource) IsEqual(other Resource) bool {
	_, ok := other.(*heapResource)
	return ok
}

var _ Resource = (*heapResource)(nil)
