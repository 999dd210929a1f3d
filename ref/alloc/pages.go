package alloc

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/joshuapare/refkit/internal/mmpage"
	"github.com/joshuapare/refkit/internal/sizes"
)

// DefaultChunkSize is the mapping size Pages grows by.
const DefaultChunkSize = 64 << 10

// Pages is an off-heap arena built from anonymous page mappings.
//
// Small requests are bump-allocated from the current chunk; released slots go
// onto a free list keyed by slot size and are reused first. Requests larger
// than a quarter chunk get a dedicated mapping that is unmapped on release.
type Pages struct {
	mu        sync.Mutex
	chunkSize int
	chunks    [][]byte
	cur       []byte
	off       uintptr
	free      map[uintptr][]unsafe.Pointer
	large     map[unsafe.Pointer][]byte
	closed    bool
}

// NewPages creates an arena growing by chunkSize bytes. chunkSize <= 0 means
// DefaultChunkSize.
func NewPages(chunkSize int) *Pages {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if rounded, ok := sizes.RoundUp(uintptr(chunkSize), uintptr(mmpage.PageSize())); ok {
		chunkSize = int(rounded)
	}
	return &Pages{
		chunkSize: chunkSize,
		free:      make(map[uintptr][]unsafe.Pointer),
		large:     make(map[unsafe.Pointer][]byte),
	}
}

// Allocate implements Strategy.
func (a *Pages) Allocate(t reflect.Type, n int) (unsafe.Pointer, error) {
	size, err := checkOffHeap(t, n)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, fmt.Errorf("%w: pages arena is closed", ErrUnavailable)
	}

	if size > uintptr(a.chunkSize/4) {
		data, err := mmpage.Map(int(size))
		if err != nil {
			return nil, errors.Join(ErrOutOfMemory, err)
		}
		p := unsafe.Pointer(unsafe.SliceData(data))
		a.large[p] = data
		return p, nil
	}

	if list := a.free[size]; len(list) > 0 {
		p := list[len(list)-1]
		a.free[size] = list[:len(list)-1]
		clear(unsafe.Slice((*byte)(p), size))
		return p, nil
	}

	if a.cur == nil || !sizes.Fits(len(a.cur), a.off, size) {
		data, err := mmpage.Map(a.chunkSize)
		if err != nil {
			return nil, errors.Join(ErrOutOfMemory, err)
		}
		a.chunks = append(a.chunks, data)
		a.cur = data
		a.off = 0
	}
	p := unsafe.Pointer(&a.cur[a.off])
	a.off += size
	return p, nil
}

// Deallocate implements Strategy.
func (a *Pages) Deallocate(p unsafe.Pointer, t reflect.Type, n int) {
	if p == nil {
		return
	}
	size, err := checkOffHeap(t, n)
	if err != nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if data, ok := a.large[p]; ok {
		delete(a.large, p)
		_ = mmpage.Unmap(data)
		return
	}
	a.free[size] = append(a.free[size], p)
}

// MappedBytes returns the total bytes currently mapped by the arena.
func (a *Pages) MappedBytes() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	var total int64
	for _, c := range a.chunks {
		total += int64(len(c))
	}
	for _, d := range a.large {
		total += int64(len(d))
	}
	return total
}

// Close unmaps every chunk. Storage handed out earlier must not be used
// afterwards; later Allocate calls fail.
func (a *Pages) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	for _, c := range a.chunks {
		errs = append(errs, mmpage.Unmap(c))
	}
	for _, d := range a.large {
		errs = append(errs, mmpage.Unmap(d))
	}
	a.chunks, a.cur, a.free, a.large = nil, nil, nil, nil
	return errors.Join(errs...)
}
