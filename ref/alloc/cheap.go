package alloc

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/joshuapare/refkit/internal/clib"
)

// CHeap allocates from the C library's heap. The library is loaded on first
// use by NewCHeap.
type CHeap struct{}

// NewCHeap loads the C library and returns the strategy, or an error wrapping
// ErrUnavailable when the library cannot be loaded here.
func NewCHeap() (*CHeap, error) {
	if err := clib.Load(); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return &CHeap{}, nil
}

// Allocate implements Strategy.
func (*CHeap) Allocate(t reflect.Type, n int) (unsafe.Pointer, error) {
	if _, err := checkOffHeap(t, n); err != nil {
		return nil, err
	}
	size := max(t.Size(), 1)
	p, err := clib.Calloc(uintptr(n), size)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: calloc(%d, %d)", ErrOutOfMemory, n, size)
	}
	return p, nil
}

// Deallocate implements Strategy.
func (*CHeap) Deallocate(p unsafe.Pointer, _ reflect.Type, _ int) {
	clib.Free(p)
}
