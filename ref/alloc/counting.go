package alloc

import (
	"reflect"
	"sync/atomic"
	"unsafe"
)

// Stats is a snapshot of a Counting strategy.
type Stats struct {
	Allocs    int64 // successful Allocate calls
	Frees     int64 // Deallocate calls
	Failures  int64 // failed Allocate calls
	LiveBytes int64
	PeakBytes int64
}

// Live returns the number of allocations not yet released.
func (s Stats) Live() int64 { return s.Allocs - s.Frees }

// Balanced reports whether every allocation has been released.
func (s Stats) Balanced() bool { return s.Allocs == s.Frees && s.LiveBytes == 0 }

// Counting records traffic through another strategy.
type Counting struct {
	s         Strategy
	allocs    atomic.Int64
	frees     atomic.Int64
	failures  atomic.Int64
	liveBytes atomic.Int64
	peakBytes atomic.Int64
}

// NewCounting wraps s. A nil s means Default.
func NewCounting(s Strategy) *Counting {
	return &Counting{s: Or(s)}
}

// Allocate implements Strategy.
func (c *Counting) Allocate(t reflect.Type, n int) (unsafe.Pointer, error) {
	p, err := c.s.Allocate(t, n)
	if err != nil {
		c.failures.Add(1)
		return nil, err
	}
	c.allocs.Add(1)
	live := c.liveBytes.Add(int64(t.Size() * uintptr(n)))
	for {
		peak := c.peakBytes.Load()
		if live <= peak || c.peakBytes.CompareAndSwap(peak, live) {
			break
		}
	}
	return p, nil
}

// Deallocate implements Strategy.
func (c *Counting) Deallocate(p unsafe.Pointer, t reflect.Type, n int) {
	c.s.Deallocate(p, t, n)
	c.frees.Add(1)
	c.liveBytes.Add(-int64(t.Size() * uintptr(n)))
}

// Stats returns a snapshot of the counters.
func (c *Counting) Stats() Stats {
	return Stats{
		Allocs:    c.allocs.Load(),
		Frees:     c.frees.Load(),
		Failures:  c.failures.Load(),
		LiveBytes: c.liveBytes.Load(),
		PeakBytes: c.peakBytes.Load(),
	}
}

// Reset zeroes the counters.
func (c *Counting) Reset() {
	c.allocs.Store(0)
	c.frees.Store(0)
	c.failures.Store(0)
	c.liveBytes.Store(0)
	c.peakBytes.Store(0)
}
