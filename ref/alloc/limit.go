package alloc

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"unsafe"
)

// Limited enforces a byte budget on top of another strategy.
type Limited struct {
	s      Strategy
	budget int64
	used   atomic.Int64
}

// Limit wraps s with a budget of maxBytes. A nil s means Default.
func Limit(s Strategy, maxBytes int64) *Limited {
	return &Limited{s: Or(s), budget: maxBytes}
}

// Used returns the bytes currently charged against the budget.
func (l *Limited) Used() int64 { return l.used.Load() }

// Budget returns the configured budget.
func (l *Limited) Budget() int64 { return l.budget }

// Allocate implements Strategy.
func (l *Limited) Allocate(t reflect.Type, n int) (unsafe.Pointer, error) {
	size, err := byteSize(t, n)
	if err != nil {
		return nil, err
	}
	charge := int64(size)
	if used := l.used.Add(charge); used > l.budget {
		l.used.Add(-charge)
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrOutOfMemory, charge, used-charge, l.budget)
	}
	p, err := l.s.Allocate(t, n)
	if err != nil {
		l.used.Add(-charge)
		return nil, err
	}
	return p, nil
}

// Deallocate implements Strategy.
func (l *Limited) Deallocate(p unsafe.Pointer, t reflect.Type, n int) {
	l.s.Deallocate(p, t, n)
	l.used.Add(-int64(t.Size() * uintptr(n)))
}
