// File: internal/affinity/affinity_test.go
// Package affinity
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

import "testing"

func TestPinUnpinRoundTrip(t *testing.T) {
	if !Available() {
		t.Skip("affinity pinning not supported on this platform")
	}
	if err := Pin(0); err != nil {
		t.Fatalf("Pin(0): %v", err)
	}
	if err := Unpin(); err != nil {
		t.Fatalf("Unpin: %v", err)
	}
}
