package ref

import (
	"fmt"
	"reflect"
)

// Shared is an owning handle. Every non-empty Shared holds one strong
// reference on its control block; the value is destroyed when the last one is
// released.
//
// Go has no copy constructors or destructors, so ownership is explicit:
// Clone to share, Move to transfer, Reset (or Release) to give up. Handles are
// passed around as *Shared[T]; copying the struct itself would duplicate a
// reference without counting it.
//
// The zero Shared and a nil *Shared are empty handles. Query methods accept a
// nil receiver.
type Shared[T any] struct {
	val T
	cb  controlBlock
}

// IsEmpty reports whether s holds no reference.
func (s *Shared[T]) IsEmpty() bool {
	return s == nil || s.cb == nil
}

// Get returns the managed value. It panics with ErrEmptyHandle if s is empty.
func (s *Shared[T]) Get() T {
	if s.IsEmpty() {
		panic(fmt.Errorf("%w: Get on empty Shared[%s]", ErrEmptyHandle, typeName[T]()))
	}
	return s.val
}

// TryGet returns the managed value and true, or the zero value and false if
// s is empty.
func (s *Shared[T]) TryGet() (T, bool) {
	if s.IsEmpty() {
		var zero T
		return zero, false
	}
	return s.val, true
}

// UseCount returns the number of owning handles sharing the value, or 0 for
// an empty handle.
func (s *Shared[T]) UseCount() int64 {
	if s.IsEmpty() {
		return 0
	}
	return s.cb.hdr().counts.strongCount()
}

// WeakCount returns the number of weak handles observing the value.
func (s *Shared[T]) WeakCount() int64 {
	if s.IsEmpty() {
		return 0
	}
	return s.cb.hdr().counts.weakCount()
}

// Unique reports whether s is the only owner.
func (s *Shared[T]) Unique() bool {
	return s.UseCount() == 1
}

// Clone returns a new handle sharing ownership with s.
func (s *Shared[T]) Clone() *Shared[T] {
	if s.IsEmpty() {
		return &Shared[T]{}
	}
	s.cb.hdr().counts.addStrong()
	return &Shared[T]{val: s.val, cb: s.cb}
}

// Move transfers s's reference into a new handle without touching the
// counts. s becomes empty.
func (s *Shared[T]) Move() *Shared[T] {
	out := &Shared[T]{}
	if !s.IsEmpty() {
		out.Swap(s)
	}
	return out
}

// Swap exchanges the contents of s and o.
func (s *Shared[T]) Swap(o *Shared[T]) {
	s.val, o.val = o.val, s.val
	s.cb, o.cb = o.cb, s.cb
}

// Reset releases s's reference and leaves s empty. Releasing the last owner
// destroys the value; the control block is reclaimed once no weak handles
// remain either.
func (s *Shared[T]) Reset() {
	if s.IsEmpty() {
		return
	}
	var tmp Shared[T]
	tmp.Swap(s)
	releaseStrong(tmp.cb)
}

// Release is Reset.
func (s *Shared[T]) Release() { s.Reset() }

// Assign makes s share ownership with o, releasing whatever s held before.
// Assigning a handle of the same control block is a no-op.
func (s *Shared[T]) Assign(o *Shared[T]) {
	if s.cb == o.ownerOrNil() {
		return
	}
	tmp := o.Clone()
	s.Swap(tmp)
	tmp.Reset()
}

// AssignMove transfers o's reference into s, releasing whatever s held
// before. o becomes empty unless both already share a control block, in
// which case nothing happens.
func (s *Shared[T]) AssignMove(o *Shared[T]) {
	if s.cb == o.ownerOrNil() {
		return
	}
	tmp := o.Move()
	s.Swap(tmp)
	tmp.Reset()
}

// Weak returns a weak handle observing s's value.
func (s *Shared[T]) Weak() *Weak[T] {
	return NewWeak(s)
}

// String describes the handle for logs and debugging.
func (s *Shared[T]) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Shared[%s](empty)", typeName[T]())
	}
	h := s.cb.hdr()
	return fmt.Sprintf("Shared[%s](%s use=%d weak=%d%s)",
		typeName[T](), s.cb.kind(), h.counts.strongCount(), h.counts.weakCount(), nameSuffix(h.name))
}

func (s *Shared[T]) owner() controlBlock {
	return s.ownerOrNil()
}

func (s *Shared[T]) ownerOrNil() controlBlock {
	if s == nil {
		return nil
	}
	return s.cb
}

// Owner is implemented by Shared and Weak handles of any type.
type Owner interface {
	owner() controlBlock
}

// SameOwner reports whether a and b are non-empty and refer to the same
// control block, regardless of their static types.
func SameOwner(a, b Owner) bool {
	ca, cb := a.owner(), b.owner()
	return ca != nil && ca == cb
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func nameSuffix(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf(" name=%q", name)
}
