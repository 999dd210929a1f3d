// Package testutil provides test doubles shared by refkit's package tests.
package testutil

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/refkit/ref/alloc"
)

// ErrInjected is returned by doubles that are told to fail.
var ErrInjected = errors.New("testutil: injected failure")

// Recorder records every call of the deleter it hands out.
//
// Example:
//
//	rec := testutil.NewRecorder[*Conn]()
//	sp, _ := ref.NewWithDeleter(conn, rec.Deleter())
//	sp.Reset()
//	require.Equal(t, 1, rec.Calls())
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

// NewRecorder creates an empty recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Deleter returns a deleter that records its argument.
func (r *Recorder[T]) Deleter() func(T) {
	return func(v T) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.values = append(r.values, v)
	}
}

// Calls returns how many times the deleter ran.
func (r *Recorder[T]) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Values returns the recorded arguments in call order.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

// Resource is an io.Closer that counts Close calls.
type Resource struct {
	ID     int
	Err    error // returned from Close when set
	closes atomic.Int32
}

// Close implements io.Closer.
func (r *Resource) Close() error {
	r.closes.Add(1)
	return r.Err
}

// Closes returns how many times Close ran.
func (r *Resource) Closes() int {
	return int(r.closes.Load())
}

// Named is implemented by Resource and Widget; conversion tests view both
// through it.
type Named interface {
	Name() string
}

// Name implements Named.
func (r *Resource) Name() string {
	return fmt.Sprintf("resource-%d", r.ID)
}

// Widget is a second Named implementation unrelated to Resource.
type Widget struct {
	Label string
}

// Name implements Named.
func (w *Widget) Name() string { return w.Label }

// Failing wraps a strategy and fails allocations past a fixed count.
type Failing struct {
	s       alloc.Strategy
	succeed int64
	calls   atomic.Int64
}

// FailAfter returns a strategy that lets n allocations through to s and fails
// the rest with ErrInjected wrapped in alloc.ErrOutOfMemory.
func FailAfter(s alloc.Strategy, n int) *Failing {
	return &Failing{s: alloc.Or(s), succeed: int64(n)}
}

// Allocate implements alloc.Strategy.
func (f *Failing) Allocate(t reflect.Type, n int) (unsafe.Pointer, error) {
	if f.calls.Add(1) > f.succeed {
		return nil, fmt.Errorf("%w: %w", alloc.ErrOutOfMemory, ErrInjected)
	}
	return f.s.Allocate(t, n)
}

// Deallocate implements alloc.Strategy.
func (f *Failing) Deallocate(p unsafe.Pointer, t reflect.Type, n int) {
	f.s.Deallocate(p, t, n)
}
