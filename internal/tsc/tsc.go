// File: internal/tsc/tsc.go
// Package tsc provides a monotonic cycle counter for the periodic task
// scheduler (spec.md §4.10), grounded on
// original_source/common/lib/tsc.cpp's tsc_init/tsc_rate_to_cycles.
//
// Go exposes no portable RDTSC intrinsic without cgo or
// architecture-specific assembly — neither of which any pack repo
// uses — so this package derives "cycles" from the runtime's
// monotonic clock (time.Now()'s monotonic reading) scaled to a fixed
// nominal frequency, explicit about that choice rather than
// fabricating an invariant-TSC check the standard library cannot back.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package tsc

import (
	"runtime"
	"time"
)

// nominalFrequency is the synthetic "cycle rate" used when cycles are
// derived from nanosecond-resolution monotonic time: one cycle per
// nanosecond, i.e. Cycles() tracks time.Now()'s monotonic component.
const nominalFrequency = uint64(1_000_000_000)

// Tsc mirrors the original's struct Tsc: a calibrated frequency and an
// invariance flag callers can use to decide whether cross-core cycle
// comparisons are meaningful.
type Tsc struct {
	Frequency uint64
	Invariant bool
	start     time.Time
}

// Init detects (heuristically, see package doc) whether this platform
// is expected to offer an invariant TSC and returns a calibrated Tsc.
// Never fails: the CLOCK_MONOTONIC-backed fallback is always available.
func Init() *Tsc {
	t := &Tsc{Frequency: nominalFrequency, start: time.Now()}
	switch runtime.GOARCH {
	case "amd64", "arm64":
		// Modern x86-64/arm64 hosts almost universally expose an
		// invariant cycle counter; absent a portable way to confirm the
		// CPUID bit, this is a best-effort default, not a guarantee.
		t.Invariant = true
	}
	return t
}

// Cycles returns the monotonic cycle count since Init, at
// Frequency cycles/second.
func (t *Tsc) Cycles() uint64 {
	return uint64(time.Since(t.start))
}

// RateToCycles converts a frequency in Hz to the number of cycles in
// one period, per tsc_rate_to_cycles.
func (t *Tsc) RateToCycles(rate float64) uint64 {
	if rate <= 0 {
		return 0
	}
	return uint64(float64(t.Frequency) / rate)
}
