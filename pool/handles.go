// File: pool/handles.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"

	"github.com/momentics/hioload-mem/api"
	"github.com/momentics/hioload-mem/buf"
)

// Handles pools buffer handles for hot paths that acquire and drop
// buffers at high rates. Pooled handles are always empty; Put frees any
// storage a handle still owns before parking it.
type Handles[T any] struct {
	pool sync.Pool
	mem  api.Allocator
}

// NewHandles returns a handle pool drawing from mem (nil means the
// process default). The element type is validated once up front.
func NewHandles[T any](mem api.Allocator) (*Handles[T], error) {
	// Surface pointerful element types now rather than on first Get.
	probe, err := buf.New[T](mem)
	if err != nil {
		return nil, err
	}
	h := &Handles[T]{mem: probe.Allocator()}
	h.pool.New = func() any {
		b, _ := buf.New[T](h.mem)
		return b
	}
	h.pool.Put(probe)
	return h, nil
}

// Get returns an empty handle.
func (h *Handles[T]) Get() *buf.Buffer[T] {
	return h.pool.Get().(*buf.Buffer[T])
}

// GetSize returns a handle with storage for n elements.
func (h *Handles[T]) GetSize(n int) (*buf.Buffer[T], error) {
	b := h.Get()
	if err := b.Alloc(n); err != nil {
		h.Put(b)
		return nil, err
	}
	return b, nil
}

// Put releases the handle's storage and parks it for reuse. The handle
// must not be used afterwards.
func (h *Handles[T]) Put(b *buf.Buffer[T]) {
	if b == nil {
		return
	}
	b.Free()
	h.pool.Put(b)
}
