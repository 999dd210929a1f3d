package clib

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCallocFree(t *testing.T) {
	if err := Load(); err != nil {
		t.Skipf("C library unavailable: %v", err)
	}
	require.True(t, IsLoaded())

	p, err := Calloc(4, 8)
	require.NoError(t, err)
	require.NotNil(t, p)

	words := unsafe.Slice((*uint64)(p), 4)
	for i, w := range words {
		require.Zerof(t, w, "word %d not zeroed", i)
	}
	words[3] = 0xfeedface
	require.Equal(t, uint64(0xfeedface), words[3])

	Free(p)
}

func TestFreeNil(t *testing.T) {
	Free(nil)
}

func TestLoadIdempotent(t *testing.T) {
	first := Load()
	second := Load()
	require.Equal(t, first, second)
}
