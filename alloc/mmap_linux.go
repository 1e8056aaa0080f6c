//go:build linux
// +build linux

// File: alloc/mmap_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux backend over anonymous mappings. Requests of at least 2 MiB try
// MAP_HUGETLB first and fall back to regular pages when the hugepage pool
// is empty. Resizing goes through mremap so large regions grow without a
// copy whenever the kernel can remap them.

package alloc

import (
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-mem/api"
)

const hugePageSize = 2 << 20

// Mmap serves page-granular regions from anonymous mappings.
// Anonymous pages arrive zero-filled, so AllocZeroed equals Alloc.
type Mmap struct{}

var _ api.Allocator = Mmap{}

func (Mmap) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "allocation size must be positive").
			WithContext("size", size)
	}
	// Hugetlb mappings may only be unmapped in hugepage-multiple
	// lengths, so the attempt is restricted to exact multiples; other
	// sizes would map fine (the kernel rounds the length up) but leak
	// on Free when munmap rejects the unrounded length with EINVAL.
	if size >= hugePageSize && size%hugePageSize == 0 {
		data, err := unix.Mmap(-1, 0, size,
			unix.PROT_READ|unix.PROT_WRITE,
			unix.MAP_ANON|unix.MAP_PRIVATE|unix.MAP_HUGETLB)
		if err == nil {
			return data, nil
		}
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, api.NewError(api.ErrCodeAllocFailed, "mmap failed").
			WithContext("size", size).
			WithContext("errno", err)
	}
	return data, nil
}

func (m Mmap) AllocZeroed(size int) ([]byte, error) {
	return m.Alloc(size)
}

func (m Mmap) Realloc(b []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "reallocation size must be positive").
			WithContext("size", size)
	}
	if b == nil {
		return m.Alloc(size)
	}
	if data, err := unix.Mremap(b, size, unix.MREMAP_MAYMOVE); err == nil {
		return data, nil
	}
	// mremap refuses some mappings (hugetlb among them); map fresh,
	// copy the prefix, then drop the old region. The old mapping stays
	// intact if the fresh one cannot be made.
	data, err := m.Alloc(size)
	if err != nil {
		return nil, err
	}
	copy(data, b)
	m.Free(b)
	return data, nil
}

func (Mmap) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	if err := unix.Munmap(b); err != nil {
		Logger().Error("munmap failed, region stays mapped",
			zap.Int("size", len(b)), zap.Error(err))
	}
}
