package ref

// Convert returns a handle of type U sharing ownership with s. The
// conversion is checked against the value actually held: if it does not
// satisfy U the result is empty and s's counts are unchanged. This is not an
// error; callers check IsEmpty.
//
// Typical uses are widening a concrete handle to an interface,
//
//	var c *ref.Shared[io.Closer] = ref.Convert[io.Closer](conn)
//
// and narrowing an interface handle back to a concrete type.
func Convert[U, T any](s *Shared[T]) *Shared[U] {
	u, ok := convertValue[U](s)
	if !ok {
		return &Shared[U]{}
	}
	s.cb.hdr().counts.addStrong()
	return &Shared[U]{val: u, cb: s.cb}
}

// ConvertMove is the moving form of Convert. On success s's reference is
// transferred and s becomes empty; on failure s is left untouched and the
// result is empty.
func ConvertMove[U, T any](s *Shared[T]) *Shared[U] {
	u, ok := convertValue[U](s)
	if !ok {
		return &Shared[U]{}
	}
	out := &Shared[U]{val: u, cb: s.cb}
	var zero T
	s.val, s.cb = zero, nil
	return out
}

// AssignConvert makes dst share ownership with src viewed as U, releasing
// whatever dst held before. If src's value does not satisfy U, dst ends up
// empty. Assigning within the same control block is a no-op.
func AssignConvert[U, T any](dst *Shared[U], src *Shared[T]) {
	if cb := src.ownerOrNil(); cb != nil && cb == dst.cb {
		return
	}
	tmp := Convert[U](src)
	dst.Swap(tmp)
	tmp.Reset()
}

func convertValue[U, T any](s *Shared[T]) (U, bool) {
	if s.IsEmpty() {
		var zero U
		return zero, false
	}
	u, ok := any(s.val).(U)
	return u, ok
}
