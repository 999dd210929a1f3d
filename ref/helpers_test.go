package ref_test

import "github.com/joshuapare/refkit/ref/alloc"

func newCountingPool() *alloc.Counting {
	return alloc.NewCounting(alloc.NewPool())
}
