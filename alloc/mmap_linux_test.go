//go:build linux
// +build linux

package alloc_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/momentics/hioload-mem/alloc"
	"github.com/momentics/hioload-mem/api"
)

// captureMmapErrors routes the alloc logger into an observer so tests can
// assert that Free never hit a failing munmap.
func captureMmapErrors(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.ErrorLevel)
	alloc.SetLogger(zap.New(core))
	t.Cleanup(func() { alloc.SetLogger(zap.NewNop()) })
	return logs
}

func TestMmapAllocFree(t *testing.T) {
	var m alloc.Mmap
	b, err := m.Alloc(4096)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if len(b) != 4096 {
		t.Fatalf("len = %d, want 4096", len(b))
	}
	// Anonymous pages must be zero-filled.
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
	b[0] = 0xAA
	m.Free(b)
}

func TestMmapReallocPreservesPrefix(t *testing.T) {
	var m alloc.Mmap
	b, err := m.Alloc(4096)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	for i := range b {
		b[i] = byte(i)
	}
	nb, err := m.Realloc(b, 8192)
	if err != nil {
		t.Fatalf("Realloc: %v", err)
	}
	if len(nb) != 8192 {
		t.Fatalf("len = %d, want 8192", len(nb))
	}
	for i := 0; i < 4096; i++ {
		if nb[i] != byte(i) {
			t.Fatalf("nb[%d] = %d, want %d", i, nb[i], byte(i))
		}
	}
	m.Free(nb)
}

func TestMmapFreeUnalignedLargeRegion(t *testing.T) {
	logs := captureMmapErrors(t)
	var m alloc.Mmap

	// Just past the hugepage threshold but not a hugepage multiple. On a
	// hugepage-enabled host a hugetlb mapping of this length would be
	// unmappable (munmap demands hugepage-multiple lengths), so the
	// region must come from regular pages and Free must unmap it cleanly.
	size := (2 << 20) + 4096
	b, err := m.Alloc(size)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if len(b) != size {
		t.Fatalf("len = %d, want %d", len(b), size)
	}
	b[0] = 1
	b[size-1] = 1
	m.Free(b)

	for _, e := range logs.All() {
		t.Errorf("Free leaked the region: %s %v", e.Message, e.ContextMap())
	}
}

func TestMmapHugeRegionLifecycle(t *testing.T) {
	logs := captureMmapErrors(t)
	var m alloc.Mmap

	// An exact hugepage multiple may take the hugetlb fast path; either
	// way the full alloc/realloc/free cycle must release cleanly.
	b, err := m.Alloc(2 << 20)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	b[0] = 0xCD

	nb, err := m.Realloc(b, (4<<20)+4096)
	if err != nil {
		t.Fatalf("Realloc: %v", err)
	}
	if nb[0] != 0xCD {
		t.Errorf("nb[0] = %d, want 0xCD", nb[0])
	}
	m.Free(nb)

	for _, e := range logs.All() {
		t.Errorf("lifecycle leaked a region: %s %v", e.Message, e.ContextMap())
	}
}

func TestMmapRejectsNonPositive(t *testing.T) {
	var m alloc.Mmap
	if _, err := m.Alloc(0); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("Alloc(0) err = %v, want ErrInvalidArgument", err)
	}
	if _, err := m.Realloc(nil, -1); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("Realloc(nil, -1) err = %v, want ErrInvalidArgument", err)
	}
}
