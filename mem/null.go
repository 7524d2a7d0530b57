package mem

import (
	"fmt"
	"unsafe"
)

// NullResource fails every allocation unconditionally. It is used as a
// sentinel upstream to force hard failure instead of silent growth, e.g. to
// cap a Monotonic arena backed by a fixed buffer.
type NullResource struct{}

var nullResource = &NullResource{}

// Null returns the process-wide NullResource instance.
func Null() *NullResource {
	return nullResource
}

// Allocate implements Resource. It always fails.
func (*NullResource) Allocate(size, align int) (unsafe.Pointer, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("mem: null resource: %w", ErrOutOfMemory)
}

// Deallocate implements Resource. A null resource never allocates, so any
// non-nil pointer directed at it is a contract violation.
func (*NullResource) Deallocate(p unsafe.Pointer, size, align int) error {
	if p != nil {
		return fmt.Errorf("mem: null resource: %w", ErrMismatch)
	}
	return nil
}

// IsEqual implements Resource. All NullResource instances are interchangeable
// since none of them ever owns memory.
func (*NullResource) IsEqual(other Resource) bool {
	_, ok := other.(*NullResource)
	return ok
}

var _ Resource = (*NullResource)(nil)
