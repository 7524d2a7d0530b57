// Package hostmem obtains page-granular memory from the operating system.
// On unix platforms it uses anonymous private mappings; elsewhere it falls
// back to the Go heap.
package hostmem

import "os"

var pageSize = os.Getpagesize()

// PageSize returns the host page size.
func PageSize() int {
	return pageSize
}

// RoundToPages rounds n up to a whole number of pages.
func RoundToPages(n int) int {
	mask := pageSize - 1
	return (n + mask) &^ mask
}
