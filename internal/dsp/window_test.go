// File: internal/dsp/window_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package dsp

import "testing"

func TestParseWindowType(t *testing.T) {
	cases := map[string]WindowType{
		"hann":    Hann,
		"hamming": Hamming,
		"":        Rectangular,
		"bogus":   Rectangular,
	}
	for in, want := range cases {
		if got := ParseWindowType(in); got != want {
			t.Errorf("ParseWindowType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCoefficientsRectangularIsUnweighted(t *testing.T) {
	c := Coefficients(Rectangular, 5)
	for i, v := range c {
		if v != 1 {
			t.Errorf("coeffs[%d] = %v, want 1", i, v)
		}
	}
}

func TestCoefficientsZeroLength(t *testing.T) {
	if c := Coefficients(Hann, 0); len(c) != 0 {
		t.Fatalf("Coefficients(Hann, 0) = %v, want empty", c)
	}
}

func TestCoefficientsHannEndpointsNearZero(t *testing.T) {
	c := Coefficients(Hann, 64)
	if c[0] > 0.01 {
		t.Fatalf("Hann window coeffs[0] = %v, want near 0", c[0])
	}
}
