package ref

import "fmt"

// Weak observes a value owned by Shared handles without keeping it alive.
// It keeps only the control block alive, so Expired and Lock stay valid after
// the value is destroyed.
//
// Like Shared, Weak is handled through pointers and released explicitly.
type Weak[T any] struct {
	cb controlBlock
}

// NewWeak returns a weak handle observing s's value. An empty s gives an
// empty weak handle.
func NewWeak[T any](s *Shared[T]) *Weak[T] {
	if s.IsEmpty() {
		return &Weak[T]{}
	}
	s.cb.hdr().counts.addWeak()
	return &Weak[T]{cb: s.cb}
}

// IsEmpty reports whether w observes nothing.
func (w *Weak[T]) IsEmpty() bool {
	return w == nil || w.cb == nil
}

// Expired reports whether the observed value has been destroyed. Empty weak
// handles are always expired.
func (w *Weak[T]) Expired() bool {
	return w.UseCount() == 0
}

// UseCount returns the number of owners of the observed value.
func (w *Weak[T]) UseCount() int64 {
	if w.IsEmpty() {
		return 0
	}
	return w.cb.hdr().counts.strongCount()
}

// WeakCount returns the number of weak handles sharing w's control block.
func (w *Weak[T]) WeakCount() int64 {
	if w.IsEmpty() {
		return 0
	}
	return w.cb.hdr().counts.weakCount()
}

// Lock returns an owning handle if the value is still alive, or an empty
// handle otherwise. It never blocks and never panics.
func (w *Weak[T]) Lock() *Shared[T] {
	if w.IsEmpty() {
		return &Shared[T]{}
	}
	h := w.cb.hdr()
	if !h.counts.tryAddStrong() {
		return &Shared[T]{}
	}
	v, ok := h.obj.(T)
	if !ok {
		releaseStrong(w.cb)
		return &Shared[T]{}
	}
	return &Shared[T]{val: v, cb: w.cb}
}

// Clone returns another weak handle on the same control block.
func (w *Weak[T]) Clone() *Weak[T] {
	if w.IsEmpty() {
		return &Weak[T]{}
	}
	w.cb.hdr().counts.addWeak()
	return &Weak[T]{cb: w.cb}
}

// Move transfers w's reference into a new handle. w becomes empty.
func (w *Weak[T]) Move() *Weak[T] {
	out := &Weak[T]{}
	if !w.IsEmpty() {
		out.Swap(w)
	}
	return out
}

// Swap exchanges the contents of w and o.
func (w *Weak[T]) Swap(o *Weak[T]) {
	w.cb, o.cb = o.cb, w.cb
}

// Reset releases w's reference and leaves w empty. The last reference of
// either kind reclaims the control block.
func (w *Weak[T]) Reset() {
	if w.IsEmpty() {
		return
	}
	var tmp Weak[T]
	tmp.Swap(w)
	releaseWeak(tmp.cb)
}

// Release is Reset.
func (w *Weak[T]) Release() { w.Reset() }

// Assign makes w observe what o observes.
func (w *Weak[T]) Assign(o *Weak[T]) {
	if w.cb == o.owner() {
		return
	}
	tmp := o.Clone()
	w.Swap(tmp)
	tmp.Reset()
}

// AssignMove transfers o's reference into w. Nothing happens if both already
// share a control block.
func (w *Weak[T]) AssignMove(o *Weak[T]) {
	if w.cb == o.owner() {
		return
	}
	tmp := o.Move()
	w.Swap(tmp)
	tmp.Reset()
}

// String describes the handle for logs and debugging.
func (w *Weak[T]) String() string {
	if w.IsEmpty() {
		return fmt.Sprintf("Weak[%s](empty)", typeName[T]())
	}
	h := w.cb.hdr()
	return fmt.Sprintf("Weak[%s](%s use=%d weak=%d%s)",
		typeName[T](), w.cb.kind(), h.counts.strongCount(), h.counts.weakCount(), nameSuffix(h.name))
}

func (w *Weak[T]) owner() controlBlock {
	if w == nil {
		return nil
	}
	return w.cb
}
