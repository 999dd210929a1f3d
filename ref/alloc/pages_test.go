package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/refkit/internal/mmpage"
)

func TestPagesRejectsPointerTypes(t *testing.T) {
	a := NewPages(0)
	defer a.Close()

	_, err := New[node](a)
	require.ErrorIs(t, err, ErrPointerType)
}

func TestPagesAlignmentAndReuse(t *testing.T) {
	a := NewPages(0)
	defer a.Close()

	p, err := New[point](a)
	require.NoError(t, err)
	assert.Zero(t, uintptr(unsafe.Pointer(p))%slotAlign)

	p.X = 42
	Delete(a, p)

	q, err := New[point](a)
	require.NoError(t, err)
	assert.Equal(t, unsafe.Pointer(p), unsafe.Pointer(q), "released slot should be reused")
	assert.Equal(t, point{}, *q)
}

func TestPagesGrowsByChunks(t *testing.T) {
	chunk := mmpage.PageSize()
	a := NewPages(chunk)
	defer a.Close()

	// 16-byte slots fill one chunk exactly.
	for range chunk / 16 {
		_, err := New[point](a)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(chunk), a.MappedBytes())

	_, err := New[point](a)
	require.NoError(t, err)
	assert.Equal(t, int64(2*chunk), a.MappedBytes())
}

func TestPagesLargeRequests(t *testing.T) {
	a := NewPages(mmpage.PageSize())
	defer a.Close()

	big, err := New[[8192]byte](a)
	require.NoError(t, err)
	big[8191] = 1
	mapped := a.MappedBytes()
	assert.GreaterOrEqual(t, mapped, int64(8192))

	Delete(a, big)
	assert.Less(t, a.MappedBytes(), mapped)
}

func TestPagesClose(t *testing.T) {
	a := NewPages(0)
	_, err := New[point](a)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "Close is idempotent")

	_, err = New[point](a)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCHeap(t *testing.T) {
	h, err := NewCHeap()
	if err != nil {
		require.ErrorIs(t, err, ErrUnavailable)
		t.Skipf("C heap unavailable: %v", err)
	}

	p, err := New[point](h)
	require.NoError(t, err)
	assert.Equal(t, point{}, *p)
	p.Y = 3
	Delete(h, p)

	_, err = New[node](h)
	require.ErrorIs(t, err, ErrPointerType)

	xs, err := NewSlice[uint32](h, 1024)
	require.NoError(t, err)
	xs[1023] = 5
	DeleteSlice(h, xs)
}
