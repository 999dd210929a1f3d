package ref_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/refkit/internal/testutil"
	"github.com/joshuapare/refkit/ref"
)

func TestConvertToInterfaceSharesCount(t *testing.T) {
	res := &testutil.Resource{ID: 7}
	sp, err := ref.New(res)
	require.NoError(t, err)

	named := ref.Convert[testutil.Named](sp)
	require.False(t, named.IsEmpty())
	assert.Equal(t, int64(2), sp.UseCount())
	assert.Equal(t, int64(2), named.UseCount())
	assert.Equal(t, "resource-7", named.Get().Name())
	assert.True(t, ref.SameOwner(sp, named))

	closer := ref.Convert[io.Closer](named)
	assert.Equal(t, int64(3), sp.UseCount())

	sp.Reset()
	named.Reset()
	assert.Zero(t, res.Closes())
	closer.Reset()
	assert.Equal(t, 1, res.Closes())
}

func TestConvertMismatchIsEmpty(t *testing.T) {
	sp, err := ref.New[testutil.Named](&testutil.Widget{Label: "w"})
	require.NoError(t, err)
	defer sp.Reset()

	res := ref.Convert[*testutil.Resource](sp)
	assert.True(t, res.IsEmpty())
	assert.Zero(t, res.UseCount())
	assert.Equal(t, int64(1), sp.UseCount(), "a failed conversion does not count")

	closer := ref.Convert[io.Closer](sp)
	assert.True(t, closer.IsEmpty())

	widget := ref.Convert[*testutil.Widget](sp)
	require.False(t, widget.IsEmpty())
	assert.Equal(t, "w", widget.Get().Label)
	widget.Reset()
}

func TestConvertEmpty(t *testing.T) {
	out := ref.Convert[io.Closer](&ref.Shared[*testutil.Resource]{})
	assert.True(t, out.IsEmpty())
}

func TestConvertMove(t *testing.T) {
	res := &testutil.Resource{ID: 3}
	sp, err := ref.New(res)
	require.NoError(t, err)

	named := ref.Convert[testutil.Named](sp)
	bad := ref.ConvertMove[*testutil.Widget](named)
	assert.True(t, bad.IsEmpty())
	assert.False(t, named.IsEmpty(), "a failed move leaves the source intact")
	assert.Equal(t, int64(2), sp.UseCount())

	good := ref.ConvertMove[io.Closer](named)
	assert.True(t, named.IsEmpty())
	assert.False(t, good.IsEmpty())
	assert.Equal(t, int64(2), sp.UseCount(), "moving does not add an owner")

	good.Reset()
	sp.Reset()
	assert.Equal(t, 1, res.Closes())
}

func TestAssignConvert(t *testing.T) {
	res := &testutil.Resource{ID: 4}
	sp, err := ref.New(res)
	require.NoError(t, err)

	old := &testutil.Resource{ID: 5}
	dst, err := ref.New[testutil.Named](old)
	require.NoError(t, err)

	ref.AssignConvert(dst, sp)
	assert.Equal(t, 1, old.Closes(), "dst released its previous value")
	assert.Equal(t, "resource-4", dst.Get().Name())
	assert.Equal(t, int64(2), sp.UseCount())

	ref.AssignConvert(dst, sp)
	assert.Equal(t, int64(2), sp.UseCount(), "same block is a no-op")

	widget, err := ref.New(&testutil.Widget{})
	require.NoError(t, err)
	var closer ref.Shared[io.Closer]
	ref.AssignConvert(&closer, widget)
	assert.True(t, closer.IsEmpty())
	assert.Equal(t, int64(1), widget.UseCount())

	dst.Reset()
	sp.Reset()
	widget.Reset()
	assert.Equal(t, 1, res.Closes())
}

func TestWeakFromConvertedHandleLocks(t *testing.T) {
	sp, err := ref.Make(func(r *testutil.Resource) error { r.ID = 9; return nil })
	require.NoError(t, err)

	named := ref.Convert[testutil.Named](sp)
	w := named.Weak()
	sp.Reset()

	locked := w.Lock()
	require.False(t, locked.IsEmpty())
	assert.Equal(t, "resource-9", locked.Get().Name())

	locked.Reset()
	named.Reset()
	assert.True(t, w.Lock().IsEmpty())
	w.Reset()
}
