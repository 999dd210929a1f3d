//go:build !unix

// Package mmpage provides anonymous page mappings for off-heap storage.
package mmpage

import (
	"fmt"
	"os"

	"github.com/joshuapare/refkit/internal/sizes"
)

// OffHeap reports whether Map returns memory outside the Go heap.
const OffHeap = false

// PageSize returns the system page size.
func PageSize() int {
	return os.Getpagesize()
}

// Map allocates size bytes from the Go heap when anonymous mappings are not
// available. size is rounded up to a whole number of pages.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmpage: invalid mapping size %d", size)
	}
	rounded, ok := sizes.RoundUp(uintptr(size), uintptr(PageSize()))
	if !ok {
		return nil, fmt.Errorf("mmpage: mapping size %d overflows", size)
	}
	size = int(rounded)
	return make([]byte, size), nil
}

// Unmap is a no-op; the collector reclaims heap-backed pages.
func Unmap([]byte) error { return nil }
