package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitEnforcesBudget(t *testing.T) {
	size := int64(unsafe.Sizeof(point{}))
	l := Limit(nil, 2*size)

	a, err := New[point](l)
	require.NoError(t, err)
	b, err := New[point](l)
	require.NoError(t, err)
	assert.Equal(t, 2*size, l.Used())

	_, err = New[point](l)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 2*size, l.Used(), "a failed request must not be charged")

	Delete(l, a)
	c, err := New[point](l)
	require.NoError(t, err, "released bytes return to the budget")

	Delete(l, b)
	Delete(l, c)
	assert.Zero(t, l.Used())
	assert.Equal(t, 2*size, l.Budget())
}

func TestLimitZeroBudget(t *testing.T) {
	l := Limit(Heap{}, 0)
	_, err := New[point](l)
	require.ErrorIs(t, err, ErrOutOfMemory)
}
