package alloc

import (
	"fmt"
	"reflect"

	"github.com/joshuapare/refkit/internal/sizes"
)

// slotAlign is the alignment of every off-heap slot.
const slotAlign = 16

// PointerFree reports whether values of t contain no Go pointers and can
// therefore live in memory the garbage collector does not scan.
func PointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || PointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !PointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// byteSize returns the bytes needed for n elements of t.
func byteSize(t reflect.Type, n int) (uintptr, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: n=%d", ErrBadSize, n)
	}
	total, ok := sizes.Mul(uintptr(n), t.Size())
	if !ok {
		return 0, fmt.Errorf("%w: %d x %d bytes overflows", ErrBadSize, n, t.Size())
	}
	return total, nil
}

// slotSize rounds a request up to the off-heap slot granularity.
func slotSize(size uintptr) (uintptr, bool) {
	if size == 0 {
		return slotAlign, true
	}
	return sizes.RoundUp(size, slotAlign)
}

// checkOffHeap validates a request for a strategy whose storage is not scanned by the GC.
func checkOffHeap(t reflect.Type, n int) (uintptr, error) {
	if !PointerFree(t) {
		return 0, fmt.Errorf("%w: %s", ErrPointerType, t)
	}
	size, err := byteSize(t, n)
	if err != nil {
		return 0, err
	}
	if t.Align() > slotAlign {
		return 0, fmt.Errorf("%w: %s needs %d-byte alignment", ErrBadSize, t, t.Align())
	}
	slot, ok := slotSize(size)
	if !ok {
		return 0, fmt.Errorf("%w: %s x %d overflows a slot", ErrBadSize, t, n)
	}
	return slot, nil
}
