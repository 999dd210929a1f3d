package ref

import (
	"log/slog"

	"github.com/joshuapare/refkit/internal/logger"
)

// Options controls how a control block is set up. Options are fixed for the
// lifetime of the block and shared by every handle referring to it.
type Options struct {
	// Concurrent selects atomic counter updates so that handles sharing one
	// block may be cloned, locked and released from different goroutines.
	// The managed value itself is never synchronized.
	// Default: false (plain counters; all handles of a block must be used
	// from one goroutine at a time).
	Concurrent bool

	// Logger receives debug records for destroy/reclaim and warnings for
	// failing Close calls. If nil, the package logger is used.
	Logger *slog.Logger

	// Name labels the block in logs and String output.
	Name string
}

// Option mutates Options.
type Option func(*Options)

// Concurrent enables atomic counting for the block.
func Concurrent() Option {
	return func(o *Options) { o.Concurrent = true }
}

// WithLogger sets the block's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithName sets the block's label.
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Logger == nil {
		o.Logger = logger.L
	}
	return o
}
