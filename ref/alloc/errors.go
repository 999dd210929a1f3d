package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that the strategy could not provide storage.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrPointerType indicates an off-heap strategy was asked to hold a type containing Go pointers.
	ErrPointerType = errors.New("alloc: type contains Go pointers")

	// ErrUnavailable indicates the strategy cannot run on this platform or its backing library failed to load.
	ErrUnavailable = errors.New("alloc: strategy unavailable")

	// ErrBadSize indicates a non-positive element count or a zero-sized request.
	ErrBadSize = errors.New("alloc: bad allocation size")
)
