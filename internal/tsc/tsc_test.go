// File: internal/tsc/tsc_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package tsc

import "testing"

func TestInitSetsNominalFrequency(t *testing.T) {
	tsc := Init()
	if tsc.Frequency != nominalFrequency {
		t.Fatalf("Frequency = %d, want %d", tsc.Frequency, nominalFrequency)
	}
}

func TestCyclesAdvancesMonotonically(t *testing.T) {
	tsc := Init()
	a := tsc.Cycles()
	for i := 0; i < 1_000_000; i++ {
		// busy-wait a moment so time.Since(start) is guaranteed to differ
	}
	b := tsc.Cycles()
	if b < a {
		t.Fatalf("Cycles went backwards: %d then %d", a, b)
	}
}

func TestRateToCycles(t *testing.T) {
	tsc := &Tsc{Frequency: 1000}
	if got := tsc.RateToCycles(10); got != 100 {
		t.Fatalf("RateToCycles(10) = %d, want 100", got)
	}
	if got := tsc.RateToCycles(0); got != 0 {
		t.Fatalf("RateToCycles(0) = %d, want 0", got)
	}
	if got := tsc.RateToCycles(-5); got != 0 {
		t.Fatalf("RateToCycles(-5) = %d, want 0", got)
	}
}
