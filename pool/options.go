// File: pool/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/momentics/hioload-mem/api"

// Options configure a Recycler.
type Options struct {
	// Base is the backing allocator blocks are drawn from and overflow
	// is returned to. Nil means the process default.
	Base api.Allocator

	// MaxPerClass bounds each free list. Blocks freed past the bound go
	// back to the base allocator instead of accumulating.
	MaxPerClass int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the recommended recycler configuration.
func DefaultOptions() Options {
	return Options{
		MaxPerClass: 256,
	}
}

// WithBase sets the backing allocator.
func WithBase(mem api.Allocator) Option {
	return func(o *Options) { o.Base = mem }
}

// WithMaxPerClass bounds the per-class free lists.
func WithMaxPerClass(n int) Option {
	return func(o *Options) { o.MaxPerClass = n }
}
