package alloc

import (
	"reflect"
	"unsafe"
)

// Heap allocates from the Go heap. Deallocate is a no-op; the collector
// reclaims storage once nothing references it.
type Heap struct{}

// Allocate implements Strategy.
func (Heap) Allocate(t reflect.Type, n int) (unsafe.Pointer, error) {
	if _, err := byteSize(t, n); err != nil {
		return nil, err
	}
	if n == 1 {
		return reflect.New(t).UnsafePointer(), nil
	}
	return reflect.New(reflect.ArrayOf(n, t)).UnsafePointer(), nil
}

// Deallocate implements Strategy.
func (Heap) Deallocate(unsafe.Pointer, reflect.Type, int) {}
