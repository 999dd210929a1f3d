package alloc

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Strategy supplies zeroed storage for n contiguous elements of type t.
//
// Allocate must return storage that is zeroed and suitably aligned for t.
// Deallocate receives the exact pointer, type and count of a previous
// Allocate call on the same strategy; anything else is undefined.
type Strategy interface {
	Allocate(t reflect.Type, n int) (unsafe.Pointer, error)
	Deallocate(p unsafe.Pointer, t reflect.Type, n int)
}

// Default is the strategy used when none is supplied.
var Default Strategy = Heap{}

// Or returns s, or Default when s is nil.
func Or(s Strategy) Strategy {
	if s == nil {
		return Default
	}
	return s
}

// New allocates one zeroed T from s.
func New[T any](s Strategy) (*T, error) {
	p, err := Or(s).Allocate(reflect.TypeFor[T](), 1)
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Construct runs init on freshly allocated storage. A nil init leaves the
// zero value in place.
func Construct[T any](p *T, init func(*T) error) error {
	if init == nil {
		return nil
	}
	return init(p)
}

// Destroy resets *p to the zero value in place without releasing storage.
func Destroy[T any](p *T) {
	var zero T
	*p = zero
}

// Delete destroys *p and returns its storage to s.
func Delete[T any](s Strategy, p *T) {
	if p == nil {
		return
	}
	Destroy(p)
	Or(s).Deallocate(unsafe.Pointer(p), reflect.TypeFor[T](), 1)
}

// NewSlice allocates n zeroed elements of T from s.
func NewSlice[T any](s Strategy, n int) ([]T, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrBadSize, n)
	}
	p, err := Or(s).Allocate(reflect.TypeFor[T](), n)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(p), n), nil
}

// DeleteSlice clears xs and returns its storage to s. xs must be the full
// slice returned by NewSlice.
func DeleteSlice[T any](s Strategy, xs []T) {
	if len(xs) == 0 {
		return
	}
	clear(xs)
	Or(s).Deallocate(unsafe.Pointer(unsafe.SliceData(xs)), reflect.TypeFor[T](), len(xs))
}

// Allocator is a typed view of a Strategy.
type Allocator[T any] struct {
	s Strategy
}

// Rebind returns a typed view of s for element type T. Views of the same
// strategy share its state.
func Rebind[T any](s Strategy) Allocator[T] {
	return Allocator[T]{s: Or(s)}
}

// Strategy returns the underlying strategy.
func (a Allocator[T]) Strategy() Strategy { return Or(a.s) }

// New allocates one zeroed T.
func (a Allocator[T]) New() (*T, error) { return New[T](a.s) }

// Delete destroys *p and releases its storage.
func (a Allocator[T]) Delete(p *T) { Delete(a.s, p) }

// Allocate allocates n zeroed elements.
func (a Allocator[T]) Allocate(n int) ([]T, error) { return NewSlice[T](a.s, n) }

// Deallocate releases a slice previously returned by Allocate.
func (a Allocator[T]) Deallocate(xs []T) { DeleteSlice(a.s, xs) }
