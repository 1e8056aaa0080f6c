// File: alloc/arrow.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bridges between api.Allocator and Apache Arrow's allocator interface,
// so buffers can draw from Arrow memory pools and Arrow code can draw
// from hioload-mem backends.

package alloc

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/momentics/hioload-mem/api"
)

// FromArrow adapts an Arrow allocator to the api.Allocator contract.
func FromArrow(mem memory.Allocator) api.Allocator {
	return &arrowBacked{mem: mem}
}

type arrowBacked struct {
	mem memory.Allocator
}

var _ api.Allocator = (*arrowBacked)(nil)

func (a *arrowBacked) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "allocation size must be positive").
			WithContext("size", size)
	}
	return a.mem.Allocate(size), nil
}

func (a *arrowBacked) AllocZeroed(size int) ([]byte, error) {
	b, err := a.Alloc(size)
	if err != nil {
		return nil, err
	}
	// Arrow does not promise zeroed blocks; CGo-backed pools recycle.
	for i := range b {
		b[i] = 0
	}
	return b, nil
}

func (a *arrowBacked) Realloc(b []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "reallocation size must be positive").
			WithContext("size", size)
	}
	if b == nil {
		return a.Alloc(size)
	}
	return a.mem.Reallocate(size, b), nil
}

func (a *arrowBacked) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	a.mem.Free(b)
}

// ToArrow exposes an api.Allocator through Arrow's allocator interface.
// Arrow's contract has no error path; an exhausted backend panics here,
// matching what Arrow's own allocators do.
func ToArrow(mem api.Allocator) memory.Allocator {
	if mem == nil {
		mem = Default()
	}
	return &arrowView{mem: mem}
}

type arrowView struct {
	mem api.Allocator
}

var _ memory.Allocator = (*arrowView)(nil)

func (a *arrowView) Allocate(size int) []byte {
	if size == 0 {
		return nil
	}
	b, err := a.mem.Alloc(size)
	if err != nil {
		panic(err)
	}
	return b
}

func (a *arrowView) Reallocate(size int, b []byte) []byte {
	if len(b) == 0 {
		return a.Allocate(size)
	}
	if size == 0 {
		a.mem.Free(b)
		return nil
	}
	nb, err := a.mem.Realloc(b, size)
	if err != nil {
		panic(err)
	}
	return nb
}

func (a *arrowView) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	a.mem.Free(b)
}
