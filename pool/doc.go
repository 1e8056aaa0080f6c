// Package pool
// Author: momentics <momentics@gmail.com>
//
// Recycling layer for hioload-mem.
// Implements a size-classed block recycler over any allocator backend,
// plus handle pooling for hot paths. Both are safe for concurrent use by
// independent buffer handles.
// See recycler.go and handles.go for implementation details.
package pool
