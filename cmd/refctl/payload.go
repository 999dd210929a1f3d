package main

import (
	"fmt"
	"sync/atomic"

	"github.com/joshuapare/refkit/ref"
	"github.com/joshuapare/refkit/ref/alloc"
)

// payloadCloses counts payload.Close calls across all handles.
var payloadCloses atomic.Int64

// payload is the managed value used by demo and stress. It holds no Go
// pointers so every strategy, including the off-heap ones, can store it.
type payload struct {
	Seq      int64
	Checksum uint64
	Data     [48]byte
}

func (p *payload) fill(seq int64) {
	p.Seq = seq
	var sum uint64
	for i := range p.Data {
		p.Data[i] = byte(seq) + byte(i)
		sum += uint64(p.Data[i])
	}
	p.Checksum = sum
}

// Close implements io.Closer; handles call it when the value is destroyed.
func (p *payload) Close() error {
	payloadCloses.Add(1)
	return nil
}

const modeNames = "auto|owning|inplace|object"

// newPayload creates a handle to a fresh payload through the factory that
// mode selects. auto picks inplace for Go heap strategies and object for
// off-heap ones.
func newPayload(s alloc.Strategy, offHeap bool, mode string, seq int64, opts ...ref.Option) (*ref.Shared[*payload], error) {
	if mode == "auto" {
		mode = "inplace"
		if offHeap {
			mode = "object"
		}
	}
	init := func(p *payload) error {
		p.fill(seq)
		return nil
	}
	switch mode {
	case "owning":
		p := &payload{}
		p.fill(seq)
		return ref.NewWithAllocator(p, nil, s, opts...)
	case "inplace":
		return ref.Allocate(s, init, opts...)
	case "object":
		return ref.AllocateObject(s, init, opts...)
	default:
		return nil, fmt.Errorf("unknown mode %q (want %s)", mode, modeNames)
	}
}
