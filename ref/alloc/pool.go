package alloc

import (
	"reflect"
	"sync"
	"unsafe"
)

type poolKey struct {
	t reflect.Type
	n int
}

// Pool keeps one sync.Pool per (type, count) shape. Storage handed back
// through Deallocate is zeroed and reused by later Allocate calls of the same
// shape.
type Pool struct {
	pools sync.Map // poolKey -> *sync.Pool
}

// NewPool creates an empty pool strategy.
func NewPool() *Pool {
	return &Pool{}
}

func (p *Pool) get(t reflect.Type, n int) *sync.Pool {
	key := poolKey{t: t, n: n}
	if sp, ok := p.pools.Load(key); ok {
		return sp.(*sync.Pool)
	}
	shape := t
	if n != 1 {
		shape = reflect.ArrayOf(n, t)
	}
	sp, _ := p.pools.LoadOrStore(key, &sync.Pool{
		New: func() any { return reflect.New(shape).UnsafePointer() },
	})
	return sp.(*sync.Pool)
}

// Allocate implements Strategy.
func (p *Pool) Allocate(t reflect.Type, n int) (unsafe.Pointer, error) {
	if _, err := byteSize(t, n); err != nil {
		return nil, err
	}
	return p.get(t, n).Get().(unsafe.Pointer), nil
}

// Deallocate implements Strategy.
func (p *Pool) Deallocate(ptr unsafe.Pointer, t reflect.Type, n int) {
	if ptr == nil {
		return
	}
	shape := t
	if n != 1 {
		shape = reflect.ArrayOf(n, t)
	}
	// Zero before reuse so pooled storage does not keep old referents alive.
	reflect.NewAt(shape, ptr).Elem().SetZero()
	p.get(t, n).Put(ptr)
}
