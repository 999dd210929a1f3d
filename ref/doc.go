// Package ref provides reference-counted shared ownership with weak observers.
//
// # Overview
//
// A value handed to this package is owned by one or more Shared handles and
// observed by any number of Weak handles. All handles of one value point at a
// single control block that holds two counters:
//
//   - strong: live Shared handles. When it reaches zero the value is destroyed.
//   - weak: live Weak handles. When both counts are zero the control block
//     itself is reclaimed.
//
// The value is destroyed exactly once and the block is reclaimed exactly once,
// by whichever release observes both counts at zero.
//
// # Lifecycle
//
//	Alive            strong > 0
//	ObjectDestroyed  strong == 0, weak > 0
//	BlockReclaimed   strong == 0, weak == 0 (terminal)
//
// Alive goes straight to BlockReclaimed when no Weak handles exist at the
// moment the last owner is released.
//
// # Construction
//
//	conn, err := ref.New(dial())                             // default teardown (io.Closer)
//	conn, err := ref.NewWithDeleter(fd, closeFD)             // custom teardown
//	conn, err := ref.NewWithAllocator(fd, closeFD, pool)     // block from a strategy
//	sess, err := ref.Make(func(s *Session) error { ... })    // value and block in one allocation
//	sess, err := ref.Allocate(pool, func(s *Session) error { ... })
//	buf, err := ref.AllocateObject(pages, func(b *Frame) error { ... })
//
// New, NewWithDeleter and NewWithAllocator adopt an existing value. If the
// control block cannot be allocated, the caller still owns the value.
// Make and Allocate create the value; on any failure nothing is left behind.
//
// # Ownership Operations
//
//	b := a.Clone()          // UseCount +1
//	c := a.Move()           // a is empty, counts unchanged
//	a.Assign(b)             // construct-then-swap; no-op within one block
//	w := a.Weak()           // weak observer
//	if s := w.Lock(); !s.IsEmpty() { ... }
//	a.Reset()               // release; the last owner destroys the value
//
// Handles are used through pointers. Copying a Shared struct by value would
// duplicate a reference without counting it.
//
// # Conversions
//
// Convert, ConvertMove and AssignConvert change a handle's static type while
// sharing its control block. The conversion is checked against the value
// actually held; a mismatch yields an empty handle, not an error.
//
// # Errors
//
// Factories return errors wrapping ErrAllocation or ErrConstruction.
// Dereferencing an empty handle panics with ErrEmptyHandle; releasing more
// references than were acquired panics with ErrOverRelease.
//
// # Thread Safety
//
// By default counters are plain integers and all handles of one block must be
// used from one goroutine at a time. The Concurrent option switches the block
// to atomic counters so handles may be cloned, locked and released from
// different goroutines. In both modes the managed value itself is not
// synchronized; the package governs lifetime, not access.
//
// Cycles of Shared handles are never destroyed; break them with Weak.
package ref
