//go:build unix

// Package mmpage provides anonymous page mappings for off-heap storage.
package mmpage

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/refkit/internal/sizes"
)

// OffHeap reports whether Map returns memory outside the Go heap.
const OffHeap = true

// PageSize returns the system page size.
func PageSize() int {
	return unix.Getpagesize()
}

// Map maps size bytes of zeroed, private, read-write memory. size is rounded
// up to a whole number of pages.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmpage: invalid mapping size %d", size)
	}
	rounded, ok := sizes.RoundUp(uintptr(size), uintptr(PageSize()))
	if !ok {
		return nil, fmt.Errorf("mmpage: mapping size %d overflows", size)
	}
	size = int(rounded)
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmpage: mmap %d bytes: %w", size, err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Map.
func Unmap(data []byte) error {
	if data == nil {
		return nil
	}
	err := unix.Munmap(data)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
