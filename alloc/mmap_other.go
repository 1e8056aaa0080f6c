//go:build !linux && !windows
// +build !linux,!windows

// File: alloc/mmap_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package alloc

// Mmap falls back to the Go heap on platforms without a dedicated
// page-mapping backend.
type Mmap struct {
	Heap
}
