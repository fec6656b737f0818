// File: internal/metrics/collector_test.go
// Package metrics
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/villasnode/node/pkg/stats"
)

func TestCollectorExportsRegisteredHistograms(t *testing.T) {
	reg := stats.NewRegistry()
	h := stats.NewHistogram(4, 0, 10, 0)
	h.Put(3)
	h.Put(5)
	reg.Register(stats.MetricOneWayDelay, h)

	c := NewCollector()
	c.Register("path-a", reg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler(c).ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `villas_node_histogram_value{entity="path-a",metric="owd",stat="mean"} 4`) {
		t.Fatalf("metrics output missing expected sample:\n%s", body)
	}
}

func TestCollectorUnregisterRemovesEntity(t *testing.T) {
	reg := stats.NewRegistry()
	reg.Register(stats.MetricGap, stats.NewHistogram(4, 0, 10, 0))

	c := NewCollector()
	c.Register("node-a", reg)
	c.Unregister("node-a")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler(c).ServeHTTP(rec, req)

	if strings.Contains(rec.Body.String(), "node-a") {
		t.Fatal("unregistered entity should not appear in output")
	}
}
