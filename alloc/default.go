// File: alloc/default.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package alloc

import (
	"sync"

	"github.com/momentics/hioload-mem/api"
)

var (
	defaultMu  sync.RWMutex
	defaultMem api.Allocator = Heap{}
)

// Default returns the process-wide allocator used by handles constructed
// without an explicit backend, so embedding code shares one pool instead of
// fragmenting allocations.
func Default() api.Allocator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultMem
}

// SetDefault replaces the process-wide allocator. Call it during program
// initialization, before handles are constructed. Passing nil restores the
// heap backend.
func SetDefault(mem api.Allocator) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if mem == nil {
		mem = Heap{}
	}
	defaultMem = mem
}
