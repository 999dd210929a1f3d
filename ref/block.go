package ref

import (
	"fmt"
	"io"
	"log/slog"
)

// controlBlock is the bookkeeping record shared by every handle of one value.
// Variants differ only in how the value is destroyed and how the block's own
// storage is released.
type controlBlock interface {
	hdr() *header
	kind() string

	// destroyObject tears the value down and clears hdr().obj. Called once,
	// when the strong count reaches zero.
	destroyObject()

	// reclaimSelf releases the block's storage. Called once, when no strong
	// or weak references remain. The block must not be touched afterwards.
	reclaimSelf()
}

// header is the part of the control block common to all variants.
type header struct {
	obj    any // nil once destroyed
	counts counts
	name   string
	log    *slog.Logger
}

func (h *header) hdr() *header { return h }

func (h *header) init(obj any, o Options) {
	h.obj = obj
	h.counts = newCounts(o.Concurrent)
	h.name = o.Name
	h.log = o.Logger
}

// releaseStrong drops one owning reference. The last one destroys the value
// and then drops the owners' weak reference, which reclaims the block when no
// observers remain.
func releaseStrong(cb controlBlock) {
	h := cb.hdr()
	n := h.counts.releaseStrong()
	if n > 0 {
		return
	}
	if n < 0 {
		panic(overRelease(cb, "strong"))
	}
	h.log.Debug("object destroyed", "block", h.name, "kind", cb.kind())
	cb.destroyObject()
	releaseWeak(cb)
}

// releaseWeak drops one weak reference; the last one reclaims the block.
func releaseWeak(cb controlBlock) {
	h := cb.hdr()
	n := h.counts.releaseWeak()
	if n > 0 {
		return
	}
	if n < 0 {
		panic(overRelease(cb, "weak"))
	}
	h.log.Debug("block reclaimed", "block", h.name, "kind", cb.kind())
	cb.reclaimSelf()
}

func overRelease(cb controlBlock, which string) error {
	return fmt.Errorf("%w: %s count of %s block %q went negative",
		ErrOverRelease, which, cb.kind(), cb.hdr().name)
}

// closeValue runs the default teardown: Close the value if it is an io.Closer.
func closeValue(log *slog.Logger, name string, v any) {
	c, ok := v.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("close failed during destroy", "block", name, "error", err)
	}
}
