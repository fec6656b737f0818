// File: internal/dsp/window.go
// Package dsp provides the small set of signal-processing helpers
// shared by hooks, grounded on
// original_source/common/include/villas/dsp/window_cosine.hpp's
// cosine-sum window family.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package dsp

import "math"

// WindowType selects a weighting function applied across a moving
// window; Rectangular reproduces a plain unweighted mean.
type WindowType int

const (
	Rectangular WindowType = iota
	Hann
	Hamming
)

// ParseWindowType maps a config string to a WindowType, defaulting to
// Rectangular for an empty or unrecognized value.
func ParseWindowType(s string) WindowType {
	switch s {
	case "hann":
		return Hann
	case "hamming":
		return Hamming
	default:
		return Rectangular
	}
}

// Coefficients returns the len-point weighting window for typ,
// following the cosine-sum family: coeff[i] = a0 - a1*cos(2*pi*i/len).
// Rectangular returns all-ones (an unweighted mean).
func Coefficients(typ WindowType, length int) []float64 {
	coeffs := make([]float64, length)
	if length == 0 {
		return coeffs
	}
	var a0, a1 float64
	switch typ {
	case Hann:
		a0, a1 = 0.5, 0.5
	case Hamming:
		a0, a1 = 25.0/46.0, 1-25.0/46.0
	default:
		for i := range coeffs {
			coeffs[i] = 1
		}
		return coeffs
	}
	for i := range coeffs {
		coeffs[i] = a0 - a1*math.Cos(2*math.Pi*float64(i)/float64(length))
	}
	return coeffs
}
