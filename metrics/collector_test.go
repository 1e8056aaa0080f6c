package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/momentics/hioload-mem/alloc"
	"github.com/momentics/hioload-mem/metrics"
)

func TestCollectorExposesProviderCounters(t *testing.T) {
	mem := alloc.NewCounting("main", alloc.Heap{})
	b, err := mem.Alloc(100)
	if err != nil {
		t.Fatal(err)
	}
	b, err = mem.Realloc(b, 150)
	if err != nil {
		t.Fatal(err)
	}
	mem.Free(b)

	c := metrics.NewCollector()
	c.Register(mem.Name(), mem)

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("register collector: %v", err)
	}

	expected := `
# HELP hioload_mem_allocs_total Total allocations served.
# TYPE hioload_mem_allocs_total counter
hioload_mem_allocs_total{name="main"} 1
# HELP hioload_mem_bytes_allocated_total Cumulative bytes handed out.
# TYPE hioload_mem_bytes_allocated_total counter
hioload_mem_bytes_allocated_total{name="main"} 150
# HELP hioload_mem_bytes_in_use Bytes currently held by live regions.
# TYPE hioload_mem_bytes_in_use gauge
hioload_mem_bytes_in_use{name="main"} 0
# HELP hioload_mem_frees_total Total regions released.
# TYPE hioload_mem_frees_total counter
hioload_mem_frees_total{name="main"} 1
# HELP hioload_mem_reallocs_total Total in-place or moving resizes.
# TYPE hioload_mem_reallocs_total counter
hioload_mem_reallocs_total{name="main"} 1
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected exposition:\n%v", err)
	}
}

func TestCollectorUnregister(t *testing.T) {
	mem := alloc.NewCounting("gone", alloc.Heap{})
	c := metrics.NewCollector()
	c.Register("gone", mem)
	c.Unregister("gone")

	if n := testutil.CollectAndCount(c); n != 0 {
		t.Errorf("collected %d metrics after unregister, want 0", n)
	}
}
