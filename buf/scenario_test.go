package buf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-mem/alloc"
	"github.com/momentics/hioload-mem/api"
	"github.com/momentics/hioload-mem/buf"
)

// faultyAllocator fails every operation after a set number of successes.
type faultyAllocator struct {
	base      alloc.Heap
	remaining int
}

func (f *faultyAllocator) step() error {
	if f.remaining <= 0 {
		return api.NewError(api.ErrCodeAllocFailed, "allocator exhausted")
	}
	f.remaining--
	return nil
}

func (f *faultyAllocator) Alloc(size int) ([]byte, error) {
	if err := f.step(); err != nil {
		return nil, err
	}
	return f.base.Alloc(size)
}

func (f *faultyAllocator) AllocZeroed(size int) ([]byte, error) {
	if err := f.step(); err != nil {
		return nil, err
	}
	return f.base.AllocZeroed(size)
}

func (f *faultyAllocator) Realloc(b []byte, size int) ([]byte, error) {
	if err := f.step(); err != nil {
		return nil, err
	}
	return f.base.Realloc(b, size)
}

func (f *faultyAllocator) Free(b []byte) { f.base.Free(b) }

func TestScenarioCloneMutationIndependence(t *testing.T) {
	b, err := buf.NewSize[int32](alloc.Heap{}, 5)
	require.NoError(t, err)
	defer b.Free()

	for i := 0; i < 5; i++ {
		require.NoError(t, b.SetValue(i, int32(i+1)))
	}

	c, err := b.Clone()
	require.NoError(t, err)
	defer c.Free()
	require.Equal(t, []int32{1, 2, 3, 4, 5}, c.Elems())

	require.NoError(t, c.SetValue(0, 99))
	require.EqualValues(t, 1, b.Elems()[0])
	require.EqualValues(t, 99, c.Elems()[0])
}

func TestScenarioSwapTwoBuffers(t *testing.T) {
	a, err := buf.NewSize[int32](alloc.Heap{}, 5)
	require.NoError(t, err)
	defer a.Free()
	require.NoError(t, a.Fill(1))

	b, err := buf.NewSize[int32](alloc.Heap{}, 3)
	require.NoError(t, err)
	defer b.Free()
	require.NoError(t, b.Fill(2))

	a.Swap(b)

	require.Equal(t, 3, a.Len())
	for _, v := range a.Elems() {
		require.EqualValues(t, 2, v)
	}
	require.Equal(t, 5, b.Len())
	for _, v := range b.Elems() {
		require.EqualValues(t, 1, v)
	}
}

func TestReallocFailureLeavesStateIntact(t *testing.T) {
	mem := &faultyAllocator{remaining: 1}
	b, err := buf.NewSize[int32](mem, 4)
	require.NoError(t, err)

	require.NoError(t, b.Fill(11))

	err = b.Realloc(8)
	require.ErrorIs(t, err, api.ErrAllocFailed)

	// Strong guarantee: count, storage, and contents untouched.
	require.True(t, b.Allocated())
	require.Equal(t, 4, b.Len())
	for _, v := range b.Elems() {
		require.EqualValues(t, 11, v)
	}
}

func TestAllocZeroedFailureLeavesBufferEmpty(t *testing.T) {
	mem := &faultyAllocator{remaining: 1}
	b, err := buf.NewSize[int32](mem, 4)
	require.NoError(t, err)

	// The release-then-acquire order makes a failed zeroed allocation
	// leave the handle empty, not holding the prior region.
	err = b.AllocZeroed(8, 4)
	require.ErrorIs(t, err, api.ErrAllocFailed)
	require.False(t, b.Allocated())
	require.Equal(t, 0, b.Len())
}

func TestDetachedRegionSurvivesDonorReuse(t *testing.T) {
	b, err := buf.NewSize[int32](alloc.Heap{}, 4)
	require.NoError(t, err)
	require.NoError(t, b.Fill(5))

	raw := b.Detach()
	require.NotNil(t, raw)

	// Reusing the donor must not disturb the detached region.
	require.NoError(t, b.Alloc(2))
	require.NoError(t, b.Fill(0))
	b.Free()

	adopter, err := buf.New[int32](alloc.Heap{})
	require.NoError(t, err)
	require.NoError(t, adopter.Adopt(raw, 4))
	defer adopter.Free()
	for _, v := range adopter.Elems() {
		require.EqualValues(t, 5, v)
	}
}

func TestMoveTransfersBytesExactly(t *testing.T) {
	src, err := buf.NewSize[int32](alloc.Heap{}, 3)
	require.NoError(t, err)
	require.NoError(t, src.SetValues([]int32{-7, 0, 2048}, 0))
	want := append([]byte(nil), src.Bytes()...)

	dst, err := buf.New[int32](alloc.Heap{})
	require.NoError(t, err)
	dst.MoveFrom(src)
	defer dst.Free()

	require.False(t, src.Allocated())
	require.Equal(t, want, dst.Bytes())
}
