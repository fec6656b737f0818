// File: pkg/stats/histogram.go
// Package stats implements Histogram and online moment tracking per
// spec.md §4.11: fixed bucket count, configurable warmup exclusion,
// and Welford's recurrence for O(1) mean/variance.
//
// Grounded on original_source/common/include/villas/hist.hpp's member
// layout (low/high/resolution, higher/lower overflow counters,
// highest/lowest/last, and the two-element _m/_s online-variance
// accumulator), restoring the warmup-exclusion behavior spec.md §4.11
// names but the distilled spec leaves underspecified (SPEC_FULL.md §C).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package stats

import (
	"math"
	"sync"
)

// Histogram accumulates a fixed-bucket distribution plus online mean
// and variance over values outside an initial warmup window.
type Histogram struct {
	mu sync.Mutex

	buckets    []uint64
	low, high  float64
	resolution float64
	warmupN    uint64

	total   uint64
	warmed  uint64
	higher  uint64
	lower   uint64
	highest float64
	lowest  float64
	last    float64

	momentN uint64
	mean    float64
	m2      float64
}

// NewHistogram creates a Histogram with the given bucket count and
// [low, high) range; the first warmup values observed by Put are
// counted into Total but excluded from both the buckets and the
// online moments.
func NewHistogram(buckets int, low, high float64, warmup uint64) *Histogram {
	h := &Histogram{
		buckets: make([]uint64, buckets),
		low:     low,
		high:    high,
		warmupN: warmup,
		lowest:  math.Inf(1),
		highest: math.Inf(-1),
	}
	if buckets > 0 && high > low {
		h.resolution = (high - low) / float64(buckets)
	}
	return h
}

// Reset clears all counters and accumulated moments, preserving the
// bucket configuration.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.buckets {
		h.buckets[i] = 0
	}
	h.total, h.warmed, h.higher, h.lower = 0, 0, 0, 0
	h.highest, h.lowest, h.last = math.Inf(-1), math.Inf(1), 0
	h.momentN, h.mean, h.m2 = 0, 0, 0
}

// Put counts one observed value into its bucket (or the lower/higher
// overflow counters) and updates the online mean/variance, unless it
// falls within the configured warmup window.
func (h *Histogram) Put(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.total++
	h.last = v
	if v < h.lowest {
		h.lowest = v
	}
	if v > h.highest {
		h.highest = v
	}

	if h.warmed < h.warmupN {
		h.warmed++
		return
	}

	switch {
	case h.resolution <= 0:
	case v < h.low:
		h.lower++
	case v >= h.high:
		h.higher++
	default:
		idx := int((v - h.low) / h.resolution)
		if idx >= len(h.buckets) {
			idx = len(h.buckets) - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.buckets[idx]++
	}

	h.momentN++
	delta := v - h.mean
	h.mean += delta / float64(h.momentN)
	h.m2 += delta * (v - h.mean)
}

// Mean returns the online mean of all non-warmup values (Welford's
// recurrence), O(1).
func (h *Histogram) Mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mean
}

// Var returns the online sample variance of all non-warmup values.
func (h *Histogram) Var() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.momentN < 2 {
		return 0
	}
	return h.m2 / float64(h.momentN-1)
}

// Stddev returns the square root of Var.
func (h *Histogram) Stddev() float64 {
	return math.Sqrt(h.Var())
}

// Summary is a point-in-time snapshot of a Histogram, restoring the
// original's Matlab()/dump()-style report as a plain struct rather
// than a textual or plotting format (SPEC_FULL.md §C).
type Summary struct {
	Total, Warmup, Higher, Lower uint64
	Highest, Lowest, Last        float64
	Mean, Var, Stddev            float64
	Low, High, Resolution        float64
	Buckets                      []uint64
}

// Summary returns a consistent snapshot of every exposed statistic.
func (h *Histogram) Summary() Summary {
	h.mu.Lock()
	defer h.mu.Unlock()
	buckets := make([]uint64, len(h.buckets))
	copy(buckets, h.buckets)
	var variance float64
	if h.momentN >= 2 {
		variance = h.m2 / float64(h.momentN-1)
	}
	return Summary{
		Total:      h.total,
		Warmup:     h.warmed,
		Higher:     h.higher,
		Lower:      h.lower,
		Highest:    h.highest,
		Lowest:     h.lowest,
		Last:       h.last,
		Mean:       h.mean,
		Var:        variance,
		Stddev:     math.Sqrt(variance),
		Low:        h.low,
		High:       h.high,
		Resolution: h.resolution,
		Buckets:    buckets,
	}
}
