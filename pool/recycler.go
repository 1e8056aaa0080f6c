// File: pool/recycler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Size-classed block recycler over any allocator backend.
//
// Freed blocks are parked on per-class FIFO free lists and handed back to
// the next fitting Alloc without touching the base allocator. Requests are
// rounded up to the class size, served with exact len and class-sized cap,
// so a later Realloc can grow in place within the class and Free can
// classify the block by its capacity.

package pool

import (
	"sync"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/momentics/hioload-mem/alloc"
	"github.com/momentics/hioload-mem/api"
	"github.com/momentics/hioload-mem/internal/sizeclass"
)

// Recycler is an api.Allocator decorator that recycles freed blocks.
// It is safe for concurrent use. Recycled blocks come back dirty; only
// AllocZeroed clears them.
type Recycler struct {
	base api.Allocator
	max  int
	free []freeList // one per size class
}

var _ api.Allocator = (*Recycler)(nil)

// NewRecycler builds a recycler from DefaultOptions plus any overrides.
func NewRecycler(opts ...Option) *Recycler {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Base == nil {
		o.Base = alloc.Default()
	}
	if o.MaxPerClass <= 0 {
		o.MaxPerClass = DefaultOptions().MaxPerClass
	}
	return &Recycler{
		base: o.Base,
		max:  o.MaxPerClass,
		free: make([]freeList, sizeclass.Count()),
	}
}

func (r *Recycler) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "allocation size must be positive").
			WithContext("size", size)
	}
	idx := sizeclass.Index(size)
	if idx < 0 {
		// Above the largest class: pass through, no recycling.
		Logger().Debug("recycler bypass for oversized block", zap.Int("size", size))
		return r.base.Alloc(size)
	}
	if b := r.free[idx].pop(); b != nil {
		return b[:size], nil
	}
	b, err := r.base.Alloc(sizeclass.Class(idx))
	if err != nil {
		return nil, err
	}
	return b[:size], nil
}

func (r *Recycler) AllocZeroed(size int) ([]byte, error) {
	b, err := r.Alloc(size)
	if err != nil {
		return nil, err
	}
	for i := range b {
		b[i] = 0
	}
	return b, nil
}

func (r *Recycler) Realloc(b []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "reallocation size must be positive").
			WithContext("size", size)
	}
	if b == nil {
		return r.Alloc(size)
	}
	if size <= cap(b) {
		return b[:size], nil
	}
	nb, err := r.Alloc(size)
	if err != nil {
		return nil, err
	}
	copy(nb, b)
	r.Free(b)
	return nb, nil
}

func (r *Recycler) Free(b []byte) {
	if b == nil {
		return
	}
	idx := sizeclass.IndexOf(cap(b))
	if idx < 0 {
		r.base.Free(b)
		return
	}
	if !r.free[idx].push(b[:cap(b)], r.max) {
		Logger().Debug("free list full, block returned to base allocator",
			zap.Int("class", sizeclass.Class(idx)))
		r.base.Free(b[:cap(b)])
	}
}

// freeList is a FIFO of same-class blocks. queue.Queue is not
// goroutine-safe; the mutex guards every access.
type freeList struct {
	mu sync.Mutex
	q  *queue.Queue
}

func (f *freeList) pop() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.q == nil || f.q.Length() == 0 {
		return nil
	}
	return f.q.Remove().([]byte)
}

func (f *freeList) push(b []byte, max int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.q == nil {
		f.q = queue.New()
	}
	if f.q.Length() >= max {
		return false
	}
	f.q.Add(b)
	return true
}
