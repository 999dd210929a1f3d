package ref

import "sync/atomic"

// counts holds the strong and weak counters of a control block.
//
// weak carries one extra reference on behalf of all strong owners together;
// it is dropped when strong reaches zero. The block is reclaimed when weak
// reaches zero, so "both counts are zero" is a single transition.
type counts struct {
	strong     int64
	weak       int64
	concurrent bool
}

func newCounts(concurrent bool) counts {
	return counts{strong: 1, weak: 1, concurrent: concurrent}
}

func (c *counts) addStrong() {
	if c.concurrent {
		atomic.AddInt64(&c.strong, 1)
		return
	}
	c.strong++
}

// tryAddStrong increments strong only if it is still positive.
func (c *counts) tryAddStrong() bool {
	if !c.concurrent {
		if c.strong <= 0 {
			return false
		}
		c.strong++
		return true
	}
	for {
		n := atomic.LoadInt64(&c.strong)
		if n <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt64(&c.strong, n, n+1) {
			return true
		}
	}
}

func (c *counts) releaseStrong() int64 {
	if c.concurrent {
		return atomic.AddInt64(&c.strong, -1)
	}
	c.strong--
	return c.strong
}

func (c *counts) addWeak() {
	if c.concurrent {
		atomic.AddInt64(&c.weak, 1)
		return
	}
	c.weak++
}

func (c *counts) releaseWeak() int64 {
	if c.concurrent {
		return atomic.AddInt64(&c.weak, -1)
	}
	c.weak--
	return c.weak
}

func (c *counts) strongCount() int64 {
	if c.concurrent {
		return atomic.LoadInt64(&c.strong)
	}
	return c.strong
}

// weakCount returns the number of weak handles, excluding the owners' reference.
func (c *counts) weakCount() int64 {
	var s, w int64
	if c.concurrent {
		s, w = atomic.LoadInt64(&c.strong), atomic.LoadInt64(&c.weak)
	} else {
		s, w = c.strong, c.weak
	}
	if s > 0 {
		w--
	}
	return max(w, 0)
}
