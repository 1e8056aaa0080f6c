// File: alloc/heap.go
// Package alloc implements the allocator backends buffers draw from:
// Go heap, page-granular anonymous mappings, accounting decorators, and
// bridges to foreign pools.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package alloc

import "github.com/momentics/hioload-mem/api"

// Heap serves blocks from the Go heap. Free drops the reference and lets
// the garbage collector reclaim the region; there is nothing to return.
type Heap struct{}

var _ api.Allocator = Heap{}

func (Heap) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "allocation size must be positive").
			WithContext("size", size)
	}
	return make([]byte, size), nil
}

// AllocZeroed is identical to Alloc on this backend: fresh heap memory is
// always zeroed.
func (h Heap) AllocZeroed(size int) ([]byte, error) {
	return h.Alloc(size)
}

func (h Heap) Realloc(b []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "reallocation size must be positive").
			WithContext("size", size)
	}
	if b == nil {
		return h.Alloc(size)
	}
	// Bytes between the old and new length are stale, which the
	// Allocator contract permits.
	if size <= cap(b) {
		return b[:size], nil
	}
	nb := make([]byte, size)
	copy(nb, b)
	return nb, nil
}

func (Heap) Free([]byte) {}
