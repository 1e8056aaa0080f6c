// File: metrics/collector.go
// Package metrics exposes allocator accounting as Prometheus metrics.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-mem/api"
)

// Collector exports any number of named StatsProviders as const metrics.
// Register the collector once with a prometheus registry, then register
// providers as they are constructed.
type Collector struct {
	mu        sync.RWMutex
	providers map[string]api.StatsProvider

	allocs     *prometheus.Desc
	frees      *prometheus.Desc
	reallocs   *prometheus.Desc
	bytesInUse *prometheus.Desc
	bytesTotal *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds an empty collector.
func NewCollector() *Collector {
	labels := []string{"name"}
	return &Collector{
		providers: make(map[string]api.StatsProvider),
		allocs: prometheus.NewDesc("hioload_mem_allocs_total",
			"Total allocations served.", labels, nil),
		frees: prometheus.NewDesc("hioload_mem_frees_total",
			"Total regions released.", labels, nil),
		reallocs: prometheus.NewDesc("hioload_mem_reallocs_total",
			"Total in-place or moving resizes.", labels, nil),
		bytesInUse: prometheus.NewDesc("hioload_mem_bytes_in_use",
			"Bytes currently held by live regions.", labels, nil),
		bytesTotal: prometheus.NewDesc("hioload_mem_bytes_allocated_total",
			"Cumulative bytes handed out.", labels, nil),
	}
}

// Register adds a provider under the given name. Registering the same
// name again replaces the previous provider.
func (c *Collector) Register(name string, p api.StatsProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[name] = p
}

// Unregister removes a provider.
func (c *Collector) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.providers, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocs
	ch <- c.frees
	ch <- c.reallocs
	ch <- c.bytesInUse
	ch <- c.bytesTotal
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, p := range c.providers {
		s := p.AllocStats()
		ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(s.Allocs), name)
		ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(s.Frees), name)
		ch <- prometheus.MustNewConstMetric(c.reallocs, prometheus.CounterValue, float64(s.Reallocs), name)
		ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(s.BytesInUse), name)
		ch <- prometheus.MustNewConstMetric(c.bytesTotal, prometheus.CounterValue, float64(s.BytesTotal), name)
	}
}
