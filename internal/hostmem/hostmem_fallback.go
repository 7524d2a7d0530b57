//go:build !(linux || darwin || freebsd)

package hostmem

// Alloc returns heap memory on platforms without anonymous mappings. The
// slice is not page-aligned; callers must align within it.
func Alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// Free is a no-op; the garbage collector reclaims the slice once the caller
// drops its reference.
func Free(b []byte) error {
	return nil
}
