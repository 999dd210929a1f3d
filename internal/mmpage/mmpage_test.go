package mmpage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapRoundsToPages(t *testing.T) {
	data, err := Map(1)
	require.NoError(t, err)
	defer func() { require.NoError(t, Unmap(data)) }()

	require.Len(t, data, PageSize())
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: 0x%x", i, b)
		}
	}
}

func TestMapWritable(t *testing.T) {
	data, err := Map(3 * PageSize())
	require.NoError(t, err)
	defer func() { require.NoError(t, Unmap(data)) }()

	want := []byte{0xde, 0xad, 0xbe, 0xef, 0x42}
	copy(data[PageSize()*2:], want)
	require.Equal(t, want, data[PageSize()*2:PageSize()*2+len(want)])
}

func TestMapInvalidSize(t *testing.T) {
	_, err := Map(0)
	require.Error(t, err)
	_, err = Map(-4)
	require.Error(t, err)
}

func TestUnmapNil(t *testing.T) {
	require.NoError(t, Unmap(nil))
}
