package pool_test

import (
	"testing"

	"github.com/momentics/hioload-mem/alloc"
	"github.com/momentics/hioload-mem/pool"
)

func TestHandlesRoundTrip(t *testing.T) {
	h, err := pool.NewHandles[int32](alloc.Heap{})
	if err != nil {
		t.Fatalf("NewHandles: %v", err)
	}

	b := h.Get()
	if b.Allocated() {
		t.Fatal("pooled handles must come back empty")
	}
	if err := b.Alloc(16); err != nil {
		t.Fatal(err)
	}
	if err := b.Fill(1); err != nil {
		t.Fatal(err)
	}
	h.Put(b)

	// Storage is freed on Put; the next Get sees an empty handle.
	b2 := h.Get()
	if b2.Allocated() || b2.Len() != 0 {
		t.Error("handle returned to the pool must be empty")
	}
	h.Put(b2)
}

func TestHandlesGetSize(t *testing.T) {
	h, err := pool.NewHandles[int32](nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.GetSize(8)
	if err != nil {
		t.Fatalf("GetSize: %v", err)
	}
	if !b.Allocated() || b.Len() != 8 {
		t.Errorf("Allocated=%v Len=%d, want true 8", b.Allocated(), b.Len())
	}
	h.Put(b)
}

func TestHandlesRejectPointerfulElements(t *testing.T) {
	type node struct {
		Next *int
	}
	if _, err := pool.NewHandles[node](nil); err == nil {
		t.Error("pointerful element type must be rejected at construction")
	}
}

func TestHandlesPutNil(t *testing.T) {
	h, err := pool.NewHandles[byte](nil)
	if err != nil {
		t.Fatal(err)
	}
	h.Put(nil) // must not panic
}
