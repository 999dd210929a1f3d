package alloc

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolReusesZeroedStorage(t *testing.T) {
	// Keep the GC from emptying the pool mid-test.
	defer debug.SetGCPercent(debug.SetGCPercent(-1))

	p := NewPool()
	n, err := New[node](p)
	require.NoError(t, err)
	n.Name = "stale"
	n.Next = n

	Delete(p, n)

	again, err := New[node](p)
	require.NoError(t, err)
	assert.Equal(t, node{}, *again, "pooled storage must come back zeroed")
}

func TestPoolSeparatesShapes(t *testing.T) {
	p := NewPool()

	one, err := New[point](p)
	require.NoError(t, err)
	many, err := NewSlice[point](p, 4)
	require.NoError(t, err)
	require.Len(t, many, 4)

	Delete(p, one)
	DeleteSlice(p, many)

	many, err = NewSlice[point](p, 4)
	require.NoError(t, err)
	assert.Len(t, many, 4)
}
