package ref

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/refkit/internal/logger"
	"github.com/joshuapare/refkit/ref/alloc"
)

// stubBlock records destroy and reclaim calls.
type stubBlock struct {
	header
	destroyed int
	reclaimed int
}

func (*stubBlock) kind() string { return "stub" }

func (b *stubBlock) destroyObject() {
	b.destroyed++
	b.obj = nil
}

func (b *stubBlock) reclaimSelf() { b.reclaimed++ }

func newStub(concurrent bool) *stubBlock {
	b := &stubBlock{}
	b.init(new(int), Options{Concurrent: concurrent, Logger: logger.L, Name: "stub"})
	return b
}

func TestReleaseStrongWithoutWeakReclaims(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		b := newStub(concurrent)
		releaseStrong(b)

		assert.Equal(t, 1, b.destroyed)
		assert.Equal(t, 1, b.reclaimed, "Alive goes straight to BlockReclaimed")
		assert.Nil(t, b.obj)
	}
}

func TestReleaseOrderStrongThenWeak(t *testing.T) {
	b := newStub(false)
	b.counts.addWeak()
	require.Equal(t, int64(1), b.counts.weakCount())

	releaseStrong(b)
	assert.Equal(t, 1, b.destroyed)
	assert.Zero(t, b.reclaimed, "a weak reference keeps the block")
	assert.Equal(t, int64(0), b.counts.strongCount())
	assert.Equal(t, int64(1), b.counts.weakCount())

	releaseWeak(b)
	assert.Equal(t, 1, b.destroyed)
	assert.Equal(t, 1, b.reclaimed)
}

func TestReleaseOrderWeakThenStrong(t *testing.T) {
	b := newStub(true)
	b.counts.addWeak()
	b.counts.addStrong()

	releaseWeak(b)
	assert.Zero(t, b.reclaimed)

	releaseStrong(b)
	assert.Zero(t, b.destroyed)
	releaseStrong(b)
	assert.Equal(t, 1, b.destroyed)
	assert.Equal(t, 1, b.reclaimed)
}

func TestTryAddStrongNeverResurrects(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		b := newStub(concurrent)
		b.counts.addWeak()
		require.True(t, b.counts.tryAddStrong())
		releaseStrong(b)
		releaseStrong(b)

		assert.False(t, b.counts.tryAddStrong())
		assert.Equal(t, int64(0), b.counts.strongCount())
		releaseWeak(b)
	}
}

func TestOverReleasePanics(t *testing.T) {
	b := newStub(false)
	releaseStrong(b)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrOverRelease))
		assert.Contains(t, err.Error(), `stub block "stub"`)
	}()
	releaseStrong(b)
}

func TestOverReleaseWeakPanics(t *testing.T) {
	b := newStub(true)
	b.counts.addWeak()
	releaseWeak(b)
	releaseStrong(b)

	assert.PanicsWithError(t, overRelease(b, "weak").Error(), func() { releaseWeak(b) })
}

func TestDestroyAndReclaimAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, slog.LevelDebug, true)

	sp, err := Make(func(v *int) error { *v = 1; return nil }, WithLogger(log), WithName("answer"))
	require.NoError(t, err)
	sp.Reset()

	out := buf.String()
	assert.Contains(t, out, "msg=\"object destroyed\" block=answer kind=inplace")
	assert.Contains(t, out, "msg=\"block reclaimed\" block=answer kind=inplace")
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("disk on fire") }

func TestCloseErrorIsLoggedNotPropagated(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, slog.LevelWarn, true)

	sp, err := New[*failingCloser](&failingCloser{}, WithLogger(log))
	require.NoError(t, err)
	sp.Reset()

	assert.Contains(t, buf.String(), "close failed during destroy")
	assert.Contains(t, buf.String(), "disk on fire")
}

func TestAllocatorBlockReturnsItselfToStrategy(t *testing.T) {
	c := alloc.NewCounting(alloc.NewPool())

	sp, err := NewWithAllocator(new(int), nil, c)
	require.NoError(t, err)
	assert.Equal(t, "allocator", sp.cb.kind())
	assert.Equal(t, int64(1), c.Stats().Live())

	sp.Reset()
	assert.True(t, c.Stats().Balanced())
}

func TestInplaceBlockSharesOneAllocation(t *testing.T) {
	c := alloc.NewCounting(nil)

	sp, err := Allocate(c, func(v *[4]int64) error { v[3] = 9; return nil })
	require.NoError(t, err)
	b := sp.cb.(*inplaceBlock[[4]int64])
	assert.Same(t, &b.val, sp.Get())
	assert.Equal(t, int64(1), c.Stats().Allocs)

	w := sp.Weak()
	sp.Reset()
	assert.Equal(t, [4]int64{}, b.val, "destroy zeroes the embedded value in place")
	assert.Equal(t, int64(0), c.Stats().Frees, "storage stays until the weak handle goes")

	w.Reset()
	assert.True(t, c.Stats().Balanced())
}
