package ref

import "github.com/joshuapare/refkit/ref/alloc"

// defaultBlock closes the value if it implements io.Closer and leaves both
// the value and the block to the garbage collector.
type defaultBlock struct {
	header
}

func (*defaultBlock) kind() string { return "default" }

func (b *defaultBlock) destroyObject() {
	v := b.obj
	b.obj = nil
	closeValue(b.log, b.name, v)
}

func (*defaultBlock) reclaimSelf() {}

// deleterBlock hands the value to a caller-supplied deleter.
type deleterBlock[T any] struct {
	header
	deleter func(T)
}

func (*deleterBlock[T]) kind() string { return "deleter" }

func (b *deleterBlock[T]) destroyObject() {
	v, d := b.obj.(T), b.deleter
	b.obj, b.deleter = nil, nil
	d(v)
}

func (*deleterBlock[T]) reclaimSelf() {}

// allocatorBlock is stored in memory from a Strategy and returns itself to
// that strategy on reclaim. A nil deleter falls back to the default teardown.
type allocatorBlock[T any] struct {
	header
	deleter  func(T)
	strategy alloc.Strategy
}

func (*allocatorBlock[T]) kind() string { return "allocator" }

func (b *allocatorBlock[T]) destroyObject() {
	v, d := b.obj, b.deleter
	b.obj, b.deleter = nil, nil
	if d == nil {
		closeValue(b.log, b.name, v)
		return
	}
	d(v.(T))
}

func (b *allocatorBlock[T]) reclaimSelf() {
	alloc.Delete(b.strategy, b)
}

// inplaceBlock embeds the value so that block and value share one
// allocation. Destroy tears the value down in place; reclaim frees the
// whole region.
type inplaceBlock[E any] struct {
	header
	strategy alloc.Strategy
	val      E
}

func (*inplaceBlock[E]) kind() string { return "inplace" }

func (b *inplaceBlock[E]) destroyObject() {
	b.obj = nil
	closeValue(b.log, b.name, &b.val)
	alloc.Destroy(&b.val)
}

func (b *inplaceBlock[E]) reclaimSelf() {
	alloc.Delete(b.strategy, b)
}
