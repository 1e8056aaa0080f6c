// File: api/alloc.go
// Author: momentics <momentics@gmail.com>
//
// Low-level allocation contracts for hioload-mem.
//
// Allocator is the raw primitive layer buffers are built on. Backends may
// serve blocks from the Go heap, anonymous mappings, recycling free lists,
// or foreign pools; buffers never care which.

package api

// Allocator provides raw storage regions as byte slices.
//
// Implementations may return blocks with extra capacity (len is exact,
// cap may be rounded up to an internal granule). Every slice handed out by
// Alloc, AllocZeroed, or Realloc must eventually come back through Free or
// Realloc on the same allocator, unresliced.
type Allocator interface {
	// Alloc returns a region of exactly size bytes. Contents are
	// unspecified: a recycling backend may return dirty memory.
	Alloc(size int) ([]byte, error)

	// AllocZeroed returns a region of exactly size bytes with every byte
	// set to zero.
	AllocZeroed(size int) ([]byte, error)

	// Realloc resizes b to size bytes, preserving the overlapping prefix.
	// The region may move. On error b remains valid and untouched.
	Realloc(b []byte, size int) ([]byte, error)

	// Free releases a region. Passing nil is a no-op.
	Free(b []byte)
}

// AllocStats aggregates allocator accounting counters.
type AllocStats struct {
	Allocs     uint64
	Frees      uint64
	Reallocs   uint64
	BytesInUse uint64
	BytesTotal uint64
}

// StatsProvider is implemented by allocators that track accounting.
type StatsProvider interface {
	AllocStats() AllocStats
}
