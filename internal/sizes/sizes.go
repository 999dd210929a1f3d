// Package sizes does overflow-checked arithmetic on allocation sizes.
package sizes

// Add returns a + b, with ok = false when the sum would overflow uintptr.
func Add(a, b uintptr) (uintptr, bool) {
	s := a + b
	return s, s >= a
}

// Mul returns n * size, with ok = false when the product would overflow uintptr.
// This is the check for element-count times element-size requests.
func Mul(n, size uintptr) (uintptr, bool) {
	if n == 0 || size == 0 {
		return 0, true
	}
	if n > ^uintptr(0)/size {
		return 0, false
	}
	return n * size, true
}

// RoundUp rounds n up to a multiple of align, which must be a power of two.
// ok is false when the result would overflow.
func RoundUp(n, align uintptr) (uintptr, bool) {
	s, ok := Add(n, align-1)
	if !ok {
		return 0, false
	}
	return s &^ (align - 1), true
}

// Fits reports whether n bytes starting at off lie within a buffer of bufLen
// bytes.
func Fits(bufLen int, off, n uintptr) bool {
	end, ok := Add(off, n)
	return ok && end <= uintptr(bufLen)
}
