package mem

import (
	"unsafe"

	"github.com/joshuapare/memkit/internal/memutil"
)

// Resource is the capability contract every allocation strategy implements.
//
// Implementations may delegate unmet requests to an upstream Resource. The
// variant set is closed: Null, Monotonic, Pool, SyncPool, Tracker, and the
// Heap/Mapped terminals.
type Resource interface {
	// Allocate returns a pointer to size bytes aligned to align.
	// size must be positive and align a power of two. A resource that
	// cannot satisfy the request (and whose upstream also fails) returns
	// an error wrapping ErrOutOfMemory.
	Allocate(size, align int) (unsafe.Pointer, error)

	// Deallocate returns a block previously obtained from a resource equal
	// to this one, with the identical size and alignment. Implementations
	// detect contract violations where cheaply possible and report
	// ErrMismatch instead of corrupting state.
	Deallocate(p unsafe.Pointer, size, align int) error

	// IsEqual reports whether other may safely deallocate blocks allocated
	// by this resource. The default is reference identity; decorators
	// compare their own state and their upstreams transitively.
	IsEqual(other Resource) bool
}

// checkRequest validates the Allocate preconditions shared by all resources.
func checkRequest(size, align int) error {
	if size <= 0 {
		return ErrBadSize
	}
	if !memutil.IsPowerOfTwo(align) {
		return ErrBadAlign
	}
	return nil
}
