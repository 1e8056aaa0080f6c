//go:build windows
// +build windows

// File: alloc/mmap_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows backend over VirtualAlloc. Committed pages arrive zero-filled,
// so AllocZeroed equals Alloc. VirtualAlloc cannot resize a region in
// place; realloc is allocate-copy-release.

package alloc

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/momentics/hioload-mem/api"
)

// Mmap serves page-granular regions from VirtualAlloc.
type Mmap struct{}

var _ api.Allocator = Mmap{}

func (Mmap) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "allocation size must be positive").
			WithContext("size", size)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil || addr == 0 {
		return nil, api.NewError(api.ErrCodeAllocFailed, "VirtualAlloc failed").
			WithContext("size", size).
			WithContext("errno", err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
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
	_ = windows.VirtualFree(uintptr(unsafe.Pointer(&b[0])), 0, windows.MEM_RELEASE)
}
