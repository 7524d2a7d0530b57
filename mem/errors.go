package mem

import "errors"

var (
	// ErrOutOfMemory indicates a resource could not satisfy an allocation
	// and had no upstream able to satisfy it either.
	ErrOutOfMemory = errors.New("mem: cannot satisfy allocation")

	// ErrMismatch indicates a Deallocate directed at a resource not equal
	// to the one that performed the matching Allocate, or with a size or
	// alignment that does not match the original request.
	ErrMismatch = errors.New("mem: deallocate does not match a live allocation")

	// ErrBadSize indicates an Allocate with a non-positive size.
	ErrBadSize = errors.New("mem: allocation size must be positive")

	// ErrBadAlign indicates an alignment that is not a power of two.
	ErrBadAlign = errors.New("mem: alignment must be a power of two")

	// ErrReleased indicates use of an arena or pool after Release.
	ErrReleased = errors.New("mem: resource already released")
)
