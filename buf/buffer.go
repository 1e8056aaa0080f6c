// File: buf/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package buf

import (
	"math"
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/momentics/hioload-mem/alloc"
	"github.com/momentics/hioload-mem/api"
	"github.com/momentics/hioload-mem/internal/pod"
)

// Buffer is an owned handle over a single contiguous region of T elements.
//
// The zero observable state is empty: no storage, Len() == 0. An allocated
// buffer always addresses at least one element; zero-length allocations are
// rejected rather than silently permitted.
//
// The handle records the stride (per-element byte size) its region was
// allocated with. Typed allocations use unsafe.Sizeof(T); AllocZeroed may
// record a caller-supplied stride for byte-granular scratch regions. Typed
// element operations require the stride to match the element size and fail
// with ErrInvalidArgument otherwise; Bytes() stays valid either way.
type Buffer[T any] struct {
	mem    api.Allocator
	data   []byte
	count  int
	stride int
}

// New returns an empty handle drawing from mem. A nil mem means the
// process default allocator. The element type must be pointer-free
// fixed-size POD: buffer regions are raw memory the garbage collector
// never scans.
func New[T any](mem api.Allocator) (*Buffer[T], error) {
	if err := pod.Check(reflect.TypeFor[T]()); err != nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, err.Error())
	}
	if mem == nil {
		mem = alloc.Default()
	}
	return &Buffer[T]{mem: mem, stride: elemSize[T]()}, nil
}

// NewSize returns a handle with storage for n elements already allocated.
func NewSize[T any](mem api.Allocator, n int) (*Buffer[T], error) {
	b, err := New[T](mem)
	if err != nil {
		return nil, err
	}
	if err := b.Alloc(n); err != nil {
		return nil, err
	}
	return b, nil
}

func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// regionSize returns n*stride, rejecting products that overflow int.
// An overflowing count would otherwise wrap into a small allocation
// whose recorded count no longer matches the region.
func regionSize(n, stride int) (int, error) {
	if n > math.MaxInt/stride {
		return 0, api.NewError(api.ErrCodeInvalidArgument, "element count overflows the region byte size").
			WithContext("count", n).
			WithContext("stride", stride)
	}
	return n * stride, nil
}

// Allocated reports whether the handle currently owns live storage.
func (b *Buffer[T]) Allocated() bool { return b.data != nil }

// Len returns the number of elements the buffer addresses.
func (b *Buffer[T]) Len() int { return b.count }

// ElemSize returns the stride the current region was allocated with.
// For an empty handle it is the size of T.
func (b *Buffer[T]) ElemSize() int { return b.stride }

// Allocator returns the backend this handle draws from.
func (b *Buffer[T]) Allocator() api.Allocator { return b.mem }

// Bytes returns the raw byte view of the owned region, nil when empty.
// The view is invalidated by any sizing or transfer operation.
func (b *Buffer[T]) Bytes() []byte { return b.data }

// Elems returns the typed element view of the owned region. It is nil
// when the handle is empty or when the region was allocated with a stride
// different from the element size.
func (b *Buffer[T]) Elems() []T {
	if b.data == nil || b.stride != elemSize[T]() {
		return nil
	}
	return b.elems()
}

func (b *Buffer[T]) elems() []T {
	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[0])), b.count)
}

// Alloc acquires storage for n elements. Contents are unspecified, not
// zero-filled: a recycling backend may hand back dirty memory. If the
// handle already owns storage this is a Realloc(n), never a silent leak
// of the old region.
func (b *Buffer[T]) Alloc(n int) error {
	if n <= 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "cannot allocate a non-positive element count").
			WithContext("count", n)
	}
	if b.data != nil {
		return b.Realloc(n)
	}
	size, err := regionSize(n, b.stride)
	if err != nil {
		return err
	}
	data, err := b.mem.Alloc(size)
	if err != nil {
		return api.NewError(api.ErrCodeAllocFailed, "buffer allocation failed").
			WithContext("count", n).
			WithContext("bytes", size).
			WithContext("cause", err)
	}
	b.data = data
	b.count = n
	return nil
}

// AllocZeroed releases any existing storage unconditionally, then acquires
// a zero-initialized region of n*stride bytes and records the given stride.
// On allocation failure the buffer is left empty: the release has already
// happened and is part of the contract.
func (b *Buffer[T]) AllocZeroed(n, stride int) error {
	if n <= 0 || stride <= 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "cannot allocate a non-positive count or stride").
			WithContext("count", n).
			WithContext("stride", stride)
	}
	size, err := regionSize(n, stride)
	if err != nil {
		return err
	}
	b.Free()
	data, err := b.mem.AllocZeroed(size)
	if err != nil {
		return api.NewError(api.ErrCodeAllocFailed, "zeroed buffer allocation failed").
			WithContext("count", n).
			WithContext("bytes", size).
			WithContext("cause", err)
	}
	b.data = data
	b.count = n
	b.stride = stride
	return nil
}

// Realloc resizes the owned region to n elements, preserving the contents
// of the overlapping prefix. On an empty handle it behaves as Alloc(n).
// On failure the prior region, count, and contents are untouched.
func (b *Buffer[T]) Realloc(n int) error {
	if n <= 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "cannot reallocate to a non-positive element count").
			WithContext("count", n)
	}
	if b.data == nil {
		return b.Alloc(n)
	}
	size, err := regionSize(n, b.stride)
	if err != nil {
		return err
	}
	data, err := b.mem.Realloc(b.data, size)
	if err != nil {
		return api.NewError(api.ErrCodeAllocFailed, "buffer reallocation failed").
			WithContext("count", n).
			WithContext("bytes", size).
			WithContext("cause", err)
	}
	b.data = data
	b.count = n
	return nil
}

// Free releases the owned region and resets the handle to the empty state.
// The handle may be reused afterwards. No-op when already empty.
func (b *Buffer[T]) Free() {
	if b.data == nil {
		return
	}
	b.mem.Free(b.data)
	b.data = nil
	b.count = 0
	b.stride = elemSize[T]()
}

// Resize is a no-op when n equals the current count, a Free when n is
// zero, and a Realloc otherwise.
func (b *Buffer[T]) Resize(n int) error {
	if n == b.count {
		return nil
	}
	if n == 0 {
		b.Free()
		return nil
	}
	return b.Realloc(n)
}

// Clear detaches the handle from its region. With release it frees the
// region; without it the region is deliberately leaked so that ownership
// can live elsewhere (see Detach).
func (b *Buffer[T]) Clear(release bool) {
	if release {
		b.Free()
		return
	}
	b.Detach()
}

// Detach relinquishes ownership WITHOUT invoking the deallocation
// primitive and returns the raw region, nil when empty. This is the
// disown escape hatch for ownership hand-off: the caller becomes
// responsible for handing the region to Adopt on a compatible handle or
// back to the allocator. Detaching and dropping the result leaks.
func (b *Buffer[T]) Detach() []byte {
	data := b.data
	if data != nil {
		Logger().Debug("buffer region detached without release",
			zap.Int("count", b.count), zap.Int("stride", b.stride))
	}
	b.data = nil
	b.count = 0
	b.stride = elemSize[T]()
	return data
}

// Adopt releases any prior storage, then takes ownership of an externally
// provided region as if it had been allocated here. The caller certifies
// raw is a unique region no one else will free, compatible with this
// handle's allocator (for example obtained from Detach of a buffer on the
// same backend). A nil raw with count 0 resets the handle to empty.
func (b *Buffer[T]) Adopt(raw []byte, count int) error {
	if raw == nil && count == 0 {
		b.Free()
		return nil
	}
	if raw == nil || count <= 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "cannot adopt a nil region or non-positive count").
			WithContext("count", count)
	}
	es := elemSize[T]()
	if len(raw) != count*es {
		return api.NewError(api.ErrCodeInvalidArgument, "adopted region size does not match element count").
			WithContext("len", len(raw)).
			WithContext("count", count).
			WithContext("stride", es)
	}
	b.Free()
	b.data = raw
	b.count = count
	return nil
}

// Fill assigns v to every element.
func (b *Buffer[T]) Fill(v T) error {
	return b.FillRange(0, b.count, v)
}

// FillRange assigns v to the elements in [from, to).
func (b *Buffer[T]) FillRange(from, to int, v T) error {
	if b.data == nil {
		return api.NewError(api.ErrCodeNotAllocated, "cannot fill an unallocated buffer")
	}
	if err := b.requireTyped(); err != nil {
		return err
	}
	if from < 0 || to > b.count || from > to {
		return api.NewError(api.ErrCodeInvalidArgument, "fill range out of bounds").
			WithContext("from", from).
			WithContext("to", to).
			WithContext("len", b.count)
	}
	elems := b.elems()
	for i := from; i < to; i++ {
		elems[i] = v
	}
	return nil
}

// Clone produces a buffer with freshly allocated storage of the same
// count and element-wise-copied contents on the same backend. The clone
// owns its region independently: mutating it never affects the source.
func (b *Buffer[T]) Clone() (*Buffer[T], error) {
	c := &Buffer[T]{mem: b.mem, stride: b.stride}
	if b.data == nil {
		return c, nil
	}
	data, err := b.mem.Alloc(len(b.data))
	if err != nil {
		return nil, api.NewError(api.ErrCodeAllocFailed, "clone allocation failed").
			WithContext("bytes", len(b.data)).
			WithContext("cause", err)
	}
	copy(data, b.data)
	c.data = data
	c.count = b.count
	return c, nil
}

// Swap exchanges ownership, storage, count, stride, and allocator between
// the two handles. No intermediate state is observable to the caller.
// Never fails.
func (b *Buffer[T]) Swap(other *Buffer[T]) {
	if b == other {
		return
	}
	b.mem, other.mem = other.mem, b.mem
	b.data, other.data = other.data, b.data
	b.count, other.count = other.count, b.count
	b.stride, other.stride = other.stride, b.stride
}

// CopyFrom releases this buffer's storage, allocates a fresh region for n
// elements, and copies the first n elements from src into it. The fresh
// region is acquired before the old one is released, so a failed
// allocation leaves this handle untouched.
func (b *Buffer[T]) CopyFrom(src *Buffer[T], n int) error {
	if src == nil {
		return api.NewError(api.ErrCodeInvalidArgument, "cannot copy from a nil buffer")
	}
	if src.data == nil {
		return api.NewError(api.ErrCodeNotAllocated, "cannot copy from an unallocated buffer")
	}
	if n <= 0 || n > src.count {
		return api.NewError(api.ErrCodeInvalidArgument, "copy count outside the source range").
			WithContext("count", n).
			WithContext("source_len", src.count)
	}
	if b == src {
		return b.Resize(n)
	}
	data, err := b.mem.Alloc(n * src.stride)
	if err != nil {
		return api.NewError(api.ErrCodeAllocFailed, "copy allocation failed").
			WithContext("bytes", n*src.stride).
			WithContext("cause", err)
	}
	copy(data, src.data[:n*src.stride])
	b.Free()
	b.data = data
	b.count = n
	b.stride = src.stride
	return nil
}

// MoveFrom releases this buffer's storage, then takes ownership of src's
// storage, count, stride, and allocator, leaving src empty. Self-move is
// a no-op. Never fails.
func (b *Buffer[T]) MoveFrom(src *Buffer[T]) {
	if src == nil || b == src {
		return
	}
	b.Free()
	b.mem = src.mem
	b.data = src.data
	b.count = src.count
	b.stride = src.stride
	src.data = nil
	src.count = 0
	src.stride = elemSize[T]()
}

// Same reports storage identity, not content equality: true iff both
// handles currently reference the same region. Two empty handles compare
// equal.
func (b *Buffer[T]) Same(other *Buffer[T]) bool {
	if other == nil {
		return false
	}
	if b.data == nil || other.data == nil {
		return b.data == nil && other.data == nil
	}
	return &b.data[0] == &other.data[0]
}

// SetValue writes v to element i.
func (b *Buffer[T]) SetValue(i int, v T) error {
	if b.data == nil {
		return api.NewError(api.ErrCodeNotAllocated, "cannot set a value in an unallocated buffer")
	}
	if err := b.requireTyped(); err != nil {
		return err
	}
	if i < 0 || i >= b.count {
		return api.NewError(api.ErrCodeInvalidArgument, "index out of range").
			WithContext("index", i).
			WithContext("len", b.count)
	}
	b.elems()[i] = v
	return nil
}

// SetValues copies src into the buffer starting at element `at`. The
// source must fit in the space remaining between `at` and the end of the
// owned region.
func (b *Buffer[T]) SetValues(src []T, at int) error {
	if b.data == nil {
		return api.NewError(api.ErrCodeNotAllocated, "cannot set values in an unallocated buffer")
	}
	if src == nil {
		return api.NewError(api.ErrCodeInvalidArgument, "nil source range")
	}
	if err := b.requireTyped(); err != nil {
		return err
	}
	if at < 0 || at > b.count {
		return api.NewError(api.ErrCodeInvalidArgument, "destination start out of range").
			WithContext("at", at).
			WithContext("len", b.count)
	}
	if len(src) > b.count-at {
		return api.NewError(api.ErrCodeInvalidArgument, "source range exceeds destination space").
			WithContext("source_len", len(src)).
			WithContext("space", b.count-at)
	}
	copy(b.elems()[at:], src)
	return nil
}

// GetValues copies elements [from, to) into dst, which must hold at least
// to-from elements.
func (b *Buffer[T]) GetValues(dst []T, from, to int) error {
	if b.data == nil {
		return api.NewError(api.ErrCodeNotAllocated, "cannot get values from an unallocated buffer")
	}
	if dst == nil {
		return api.NewError(api.ErrCodeInvalidArgument, "nil destination range")
	}
	if err := b.requireTyped(); err != nil {
		return err
	}
	if from < 0 || to > b.count || from > to {
		return api.NewError(api.ErrCodeInvalidArgument, "source range out of bounds").
			WithContext("from", from).
			WithContext("to", to).
			WithContext("len", b.count)
	}
	if len(dst) < to-from {
		return api.NewError(api.ErrCodeInvalidArgument, "destination shorter than requested range").
			WithContext("dst_len", len(dst)).
			WithContext("need", to-from)
	}
	copy(dst, b.elems()[from:to])
	return nil
}

// CopyTo copies the whole buffer into dst.
func (b *Buffer[T]) CopyTo(dst []T) error {
	return b.GetValues(dst, 0, b.count)
}

// Assign releases the current storage, allocates a fresh region sized to
// other's count, and deep-copies other's contents. The result never
// aliases other. Assigning an empty buffer yields an empty buffer;
// self-assignment is a no-op.
func (b *Buffer[T]) Assign(other *Buffer[T]) error {
	if other == nil {
		return api.NewError(api.ErrCodeInvalidArgument, "cannot assign from a nil buffer")
	}
	if b == other {
		return nil
	}
	if other.data == nil {
		b.Free()
		return nil
	}
	data, err := b.mem.Alloc(len(other.data))
	if err != nil {
		return api.NewError(api.ErrCodeAllocFailed, "assignment allocation failed").
			WithContext("bytes", len(other.data)).
			WithContext("cause", err)
	}
	copy(data, other.data)
	b.Free()
	b.data = data
	b.count = other.count
	b.stride = other.stride
	return nil
}

func (b *Buffer[T]) requireTyped() error {
	if b.stride != elemSize[T]() {
		return api.NewError(api.ErrCodeInvalidArgument, "region stride does not match the element size").
			WithContext("stride", b.stride).
			WithContext("elem_size", elemSize[T]())
	}
	return nil
}
