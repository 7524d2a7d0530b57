// Package memutil provides alignment and pointer arithmetic helpers shared by
// the mem package's resources.
package memutil

import "unsafe"

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// AlignUp rounds n up to the next multiple of align.
// align must be a power of two.
func AlignUp(n, align int) int {
	mask := align - 1
	return (n + mask) &^ mask
}

// AlignPad returns the number of padding bytes needed to bring addr up to the
// next align-byte boundary. Returns 0 when addr is already aligned.
// align must be a power of two.
func AlignPad(addr uintptr, align int) int {
	mask := uintptr(align) - 1
	return int((uintptr(align) - (addr & mask)) & mask)
}

// AlignPointer returns p advanced to the next align-byte boundary.
// The caller must guarantee the underlying allocation has room for the pad.
func AlignPointer(p unsafe.Pointer, align int) unsafe.Pointer {
	return unsafe.Add(p, AlignPad(uintptr(p), align))
}
