// Package alloc provides storage strategies for reference-counted values and
// their control blocks.
//
// # Overview
//
// A Strategy hands out zeroed storage for n elements of a reflect.Type and
// takes it back later. Because the element type is a parameter of every call,
// a single Strategy instance can serve any type: the ref package stores one
// strategy per control block and uses it both for the managed value and for
// the block itself (the allocator "rebind" of the classic design).
//
// # Typed Helpers
//
//	s := alloc.NewPool()
//	p, err := alloc.New[Session](s)
//	if err != nil {
//	    return err
//	}
//	defer alloc.Delete(s, p)
//
// Rebind returns a typed Allocator[T] view over a Strategy when a value-style
// API is more convenient.
//
// # Implementations
//
// Heap: Go heap allocation through reflect.New. Never fails. This is Default.
//
// Pool: per-type sync.Pool free lists. Deallocated storage is zeroed and
// handed out again.
//
// Limit: byte budget wrapper. Fails with ErrOutOfMemory once the budget would
// be exceeded.
//
// Counting: wrapper that records allocate and deallocate calls and live bytes.
//
// Pages: off-heap arena over anonymous page mappings with segregated free
// lists per slot size. Pointer-free element types only.
//
// CHeap: off-heap storage from the C library's calloc and free, loaded at
// runtime without cgo. Pointer-free element types only.
//
// # Pointer-Free Types
//
// Off-heap storage is invisible to the Go garbage collector, so Pages and
// CHeap refuse any type that contains Go pointers (pointers, slices, maps,
// strings, interfaces, channels, funcs) with ErrPointerType.
//
// # Thread Safety
//
// Heap, Pool, Limit, Counting and CHeap are safe for concurrent use. Pages
// serializes its free lists with a mutex.
package alloc
