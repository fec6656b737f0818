// File: internal/metrics/collector.go
// Package metrics adapts pkg/stats.Registry into a Prometheus
// prometheus.Collector, exported at GET /metrics per spec.md §6. Every
// node/path owns one stats.Registry (spec.md §4.11); Collector fans
// across all of them registered under an entity label so a single
// /metrics scrape covers the whole gateway.
//
// Grounded on etalazz-vsa/internal/ratelimiter/telemetry/churn's
// prometheus.MustRegister + promhttp.Handler() exposition pattern,
// adapted from that package's fixed, build-time-known metric set to a
// custom prometheus.Collector since this module's metric names
// (one-way-delay, gap, ...) and entities (node/path UUIDs) are only
// known at config-parse time.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/villasnode/node/pkg/stats"
)

var statDesc = prometheus.NewDesc(
	"villas_node_histogram_value",
	"A statistic derived from a villas-node Histogram (spec.md §4.11).",
	[]string{"entity", "metric", "stat"},
	nil,
)

var statFields = []string{"mean", "var", "stddev", "total", "last", "highest", "lowest", "higher", "lower"}

// Collector implements prometheus.Collector over every stats.Registry
// attached via Register, one per node or Path.
type Collector struct {
	mu      sync.RWMutex
	sources map[string]*stats.Registry
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{sources: make(map[string]*stats.Registry)}
}

// Register attaches reg under entity (a node or Path name/UUID),
// replacing any previous registration under the same name.
func (c *Collector) Register(entity string, reg *stats.Registry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[entity] = reg
}

// Unregister detaches entity, e.g. when its owning node/Path is torn
// down.
func (c *Collector) Unregister(entity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, entity)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- statDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for entity, reg := range c.sources {
		for _, metric := range reg.Names() {
			for _, stat := range statFields {
				v, ok := reg.Value(metric, stat)
				if !ok {
					continue
				}
				ch <- prometheus.MustNewConstMetric(statDesc, prometheus.GaugeValue, v, entity, metric, stat)
			}
		}
	}
}

var _ prometheus.Collector = (*Collector)(nil)
