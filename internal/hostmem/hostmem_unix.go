//go:build linux || darwin || freebsd

package hostmem

import (
	"golang.org/x/sys/unix"
)

// Alloc maps size bytes of anonymous memory. The returned slice is
// page-aligned. size must already be a whole number of pages.
func Alloc(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
}

// Free unmaps a slice returned by Alloc. The full original slice must be
// passed; freeing a sub-slice is a caller error the kernel will reject.
func Free(b []byte) error {
	if b == nil {
		return nil
	}
	return unix.Munmap(b)
}
