package mem

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/memkit/internal/hostmem"
	"github.com/joshuapare/memkit/internal/memutil"
)

// sliceAlign is the alignment the Go allocator guarantees for the
// multiple-of-8-sized slices the fallback hostmem build hands out; page
// mappings on unix builds are page-aligned and exceed it trivially.
const sliceAlign = 8

// mappedBlock records one live page mapping.
type mappedBlock struct {
	buf   []byte
	size  int
	align int
}

// mappedResource allocates whole pages of anonymous memory. It suits large,
// long-lived blocks such as arena backing storage, keeping them out of the
// Go heap. Safe for concurrent use.
type mappedResource struct {
	mu   sync.Mutex
	live map[unsafe.Pointer]mappedBlock
}

var mappedRes = &mappedResource{live: make(map[unsafe.Pointer]mappedBlock)}

// Mapped returns the process-wide page-mapping resource. Every allocation is
// rounded up to whole pages, so it is wasteful for small blocks; put an arena
// or pool in front of it instead.
func Mapped() Resource {
	return mappedRes
}

// Allocate implements Resource.
func (m *mappedResource) Allocate(size, align int) (unsafe.Pointer, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	// The fallback build hands out heap slices with no page alignment, so
	// over-ask whenever the caller wants more than slice alignment.
	ask := size
	if align > sliceAlign {
		ask += align - 1
	}
	buf, err := hostmem.Alloc(hostmem.RoundToPages(ask))
	if err != nil {
		return nil, fmt.Errorf("mem: mapped: %w (%v)", ErrOutOfMemory, err)
	}
	p := unsafe.Pointer(&buf[0])
	if align > sliceAlign {
		p = memutil.AlignPointer(p, align)
	}
	m.mu.Lock()
	m.live[p] = mappedBlock{buf: buf, size: size, align: align}
	m.mu.Unlock()
	return p, nil
}

// Deallocate implements Resource.
func (m *mappedResource) Deallocate(p unsafe.Pointer, size, align int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	blk, ok := m.live[p]
	if !ok {
		return fmt.Errorf("mem: mapped: unknown pointer: %w", ErrMismatch)
	}
	if blk.size != size || blk.align != align {
		return fmt.Errorf("mem: mapped: allocated (size=%d align=%d), freed (size=%d align=%d): %w",
			blk.size, blk.align, size, align, ErrMismatch)
	}
	delete(m.live, p)
	return hostmem.Free(blk.buf)
}

// IsEqual implements Resource.
func (m *mappedResource) IsEqual(other Resource) bool {
	_, ok := other.(*mappedResource)
	return ok
}

var _ Resource = (*mappedResource)(nil)
