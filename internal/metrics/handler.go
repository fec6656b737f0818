// File: internal/metrics/handler.go
// Package metrics
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler builds a fresh prometheus.Registry containing c plus the
// standard process/Go runtime collectors, and returns the /metrics
// HTTP handler for it. A private registry (rather than
// prometheus.DefaultRegisterer) keeps repeated SuperNode
// start/stop/restart cycles from colliding with global registration
// state.
func Handler(c *Collector) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(c)
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	reg.MustRegister(prometheus.NewGoCollector())
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
