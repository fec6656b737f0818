// File: pkg/stats/stats_test.go
// Package stats
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stats

import "testing"

func TestHistogramMeanAndVar(t *testing.T) {
	h := NewHistogram(10, 0, 10, 0)
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		h.Put(v)
	}
	if mean := h.Mean(); mean < 4.9 || mean > 5.1 {
		t.Fatalf("Mean() = %v, want ~5", mean)
	}
	if v := h.Var(); v < 4.5 || v > 4.7 {
		t.Fatalf("Var() = %v, want ~4.571", v)
	}
}

func TestHistogramWarmupExcluded(t *testing.T) {
	h := NewHistogram(4, 0, 4, 2)
	h.Put(100) // warmup 1
	h.Put(100) // warmup 2
	h.Put(1)
	h.Put(2)
	s := h.Summary()
	if s.Total != 4 {
		t.Fatalf("Total = %d, want 4", s.Total)
	}
	if s.Warmup != 2 {
		t.Fatalf("Warmup = %d, want 2", s.Warmup)
	}
	if mean := h.Mean(); mean != 1.5 {
		t.Fatalf("Mean() = %v, want 1.5 (warmup values excluded)", mean)
	}
}

func TestHistogramOverflowBuckets(t *testing.T) {
	h := NewHistogram(2, 0, 10, 0)
	h.Put(-1)
	h.Put(11)
	h.Put(5)
	s := h.Summary()
	if s.Lower != 1 || s.Higher != 1 {
		t.Fatalf("Lower=%d Higher=%d, want 1 and 1", s.Lower, s.Higher)
	}
	if sum := s.Buckets[0] + s.Buckets[1]; sum != 1 {
		t.Fatalf("in-range bucket total = %d, want 1", sum)
	}
}

func TestHistogramReset(t *testing.T) {
	h := NewHistogram(4, 0, 4, 0)
	h.Put(1)
	h.Put(2)
	h.Reset()
	s := h.Summary()
	if s.Total != 0 || s.Mean != 0 {
		t.Fatalf("Reset did not clear state: %+v", s)
	}
}

func TestRegistryValueSelectors(t *testing.T) {
	r := NewRegistry()
	h := NewHistogram(4, 0, 10, 0)
	r.Register(MetricOneWayDelay, h)
	r.Put(MetricOneWayDelay, 3)
	r.Put(MetricOneWayDelay, 5)

	if v, ok := r.Value(MetricOneWayDelay, "mean"); !ok || v != 4 {
		t.Fatalf("Value(mean) = %v,%v want 4,true", v, ok)
	}
	if _, ok := r.Value(MetricOneWayDelay, "bogus"); ok {
		t.Fatalf("Value(bogus) should report ok=false")
	}
	if _, ok := r.Value("unregistered", "mean"); ok {
		t.Fatalf("Value on unregistered metric should report ok=false")
	}
}
