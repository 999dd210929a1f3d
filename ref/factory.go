package ref

import (
	"fmt"
	"reflect"

	"github.com/joshuapare/refkit/ref/alloc"
)

// New takes ownership of v and returns the first owning handle. When the last
// owner is released, v is closed if it implements io.Closer.
//
// A nil v (nil pointer, interface, map, slice, func or channel) yields an
// empty handle and a nil error.
func New[T any](v T, opts ...Option) (*Shared[T], error) {
	if isNil(v) {
		return &Shared[T]{}, nil
	}
	b := &defaultBlock{}
	b.init(v, buildOptions(opts))
	return &Shared[T]{val: v, cb: b}, nil
}

// NewWithDeleter is New with a custom teardown: d is called exactly once
// with v when the last owner is released. A nil d means the default teardown.
func NewWithDeleter[T any](v T, d func(T), opts ...Option) (*Shared[T], error) {
	if isNil(v) {
		return &Shared[T]{}, nil
	}
	if d == nil {
		return New(v, opts...)
	}
	b := &deleterBlock[T]{deleter: d}
	b.init(v, buildOptions(opts))
	return &Shared[T]{val: v, cb: b}, nil
}

// NewWithAllocator is NewWithDeleter with the control block stored in memory
// obtained from s and returned to s when the block is reclaimed. s must be
// able to hold Go pointers, so Pages and CHeap do not qualify.
//
// If the block cannot be allocated the error wraps ErrAllocation and
// ownership of v stays with the caller: d is not called. This differs from
// Make and Allocate, which never leave anything behind on failure.
func NewWithAllocator[T any](v T, d func(T), s alloc.Strategy, opts ...Option) (*Shared[T], error) {
	if isNil(v) {
		return &Shared[T]{}, nil
	}
	s = alloc.Or(s)
	b, err := alloc.New[allocatorBlock[T]](s)
	if err != nil {
		return nil, fmt.Errorf("%w: control block: %w", ErrAllocation, err)
	}
	b.deleter = d
	b.strategy = s
	b.init(v, buildOptions(opts))
	return &Shared[T]{val: v, cb: b}, nil
}

// Make allocates a value of type E together with its control block in one
// heap allocation, initializes it with init and returns the first owning
// handle. A nil init leaves the zero value.
//
// Prefer Make to New whenever the value does not exist yet.
func Make[E any](init func(*E) error, opts ...Option) (*Shared[*E], error) {
	return Allocate(alloc.Default, init, opts...)
}

// Allocate is Make with the combined block and value obtained from s.
//
// If the region cannot be allocated the error wraps ErrAllocation. If init
// returns an error, the region is returned to s and the error wraps
// ErrConstruction and the cause. If init panics, the region is returned to s
// before the panic continues.
func Allocate[E any](s alloc.Strategy, init func(*E) error, opts ...Option) (*Shared[*E], error) {
	s = alloc.Or(s)
	b, err := alloc.New[inplaceBlock[E]](s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	if err := constructIn(s, b, &b.val, init); err != nil {
		return nil, err
	}
	b.strategy = s
	b.init(&b.val, buildOptions(opts))
	return &Shared[*E]{val: &b.val, cb: b}, nil
}

// AllocateObject stores the value in memory from s and its control block on
// the Go heap. This is the path for off-heap strategies such as Pages and
// CHeap, which cannot hold a control block. When the last owner is released
// the value is closed if it implements io.Closer and returned to s.
//
// Failure handling matches Allocate.
func AllocateObject[E any](s alloc.Strategy, init func(*E) error, opts ...Option) (*Shared[*E], error) {
	s = alloc.Or(s)
	p, err := alloc.New[E](s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	if err := constructIn(s, p, p, init); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	b := &deleterBlock[*E]{deleter: func(p *E) {
		closeValue(o.Logger, o.Name, p)
		alloc.Delete(s, p)
	}}
	b.init(p, o)
	return &Shared[*E]{val: p, cb: b}, nil
}

// constructIn runs init on val, which lives inside region. On failure or
// panic the region is handed back to s.
func constructIn[R, E any](s alloc.Strategy, region *R, val *E, init func(*E) error) error {
	committed := false
	defer func() {
		if !committed {
			alloc.Delete(s, region)
		}
	}()
	if err := alloc.Construct(val, init); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConstruction, typeName[E](), err)
	}
	committed = true
	return nil
}

func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
