// File: alloc/counting.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Accounting decorator over any backend. Counters are atomics so the
// decorator adds no locking to the allocation path.

package alloc

import (
	"sync/atomic"

	"github.com/momentics/hioload-mem/api"
)

// Counting wraps a backend and tracks allocation accounting. It is safe
// for concurrent use whenever the backend is.
type Counting struct {
	base api.Allocator
	name string

	allocs   atomic.Uint64
	frees    atomic.Uint64
	reallocs atomic.Uint64
	inUse    atomic.Int64
	total    atomic.Uint64
}

var (
	_ api.Allocator     = (*Counting)(nil)
	_ api.StatsProvider = (*Counting)(nil)
)

// NewCounting decorates base with accounting. The name identifies this
// allocator in metrics output. A nil base means the process default.
func NewCounting(name string, base api.Allocator) *Counting {
	if base == nil {
		base = Default()
	}
	return &Counting{base: base, name: name}
}

// Name returns the identifier given at construction.
func (c *Counting) Name() string { return c.name }

func (c *Counting) Alloc(size int) ([]byte, error) {
	b, err := c.base.Alloc(size)
	if err != nil {
		return nil, err
	}
	c.allocs.Add(1)
	c.inUse.Add(int64(len(b)))
	c.total.Add(uint64(len(b)))
	return b, nil
}

func (c *Counting) AllocZeroed(size int) ([]byte, error) {
	b, err := c.base.AllocZeroed(size)
	if err != nil {
		return nil, err
	}
	c.allocs.Add(1)
	c.inUse.Add(int64(len(b)))
	c.total.Add(uint64(len(b)))
	return b, nil
}

func (c *Counting) Realloc(b []byte, size int) ([]byte, error) {
	old := len(b)
	nb, err := c.base.Realloc(b, size)
	if err != nil {
		return nil, err
	}
	c.reallocs.Add(1)
	c.inUse.Add(int64(len(nb) - old))
	if grown := len(nb) - old; grown > 0 {
		c.total.Add(uint64(grown))
	}
	return nb, nil
}

func (c *Counting) Free(b []byte) {
	if b == nil {
		return
	}
	c.frees.Add(1)
	c.inUse.Add(-int64(len(b)))
	c.base.Free(b)
}

// AllocStats returns a snapshot of the counters. The snapshot is not
// atomic across fields; individual counters are exact.
func (c *Counting) AllocStats() api.AllocStats {
	inUse := c.inUse.Load()
	if inUse < 0 {
		inUse = 0
	}
	return api.AllocStats{
		Allocs:     c.allocs.Load(),
		Frees:      c.frees.Load(),
		Reallocs:   c.reallocs.Load(),
		BytesInUse: uint64(inUse),
		BytesTotal: c.total.Load(),
	}
}
