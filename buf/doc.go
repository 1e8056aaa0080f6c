// Package buf
// Author: momentics <momentics@gmail.com>
//
// Owned contiguous buffer handles over raw allocation primitives.
//
// A Buffer[T] owns exactly one dynamically sized region of homogeneous
// elements. Exactly one handle owns a given region at any instant; every
// transfer operation (MoveFrom, Swap, Assign, Adopt, Detach) clears the
// donor before the recipient reports ownership. Handles carry no internal
// synchronization: one logical owner mutates a handle at a time, and
// concurrent access to the same handle requires external locking.
// The allocator backends themselves are safe for concurrent use by
// independent handles.
package buf
