// File: pkg/signal/signal.go
// Package signal implements SignalData (the tagged value union), Signal
// (per-channel metadata) and SignalList (an ordered, indexed sequence of
// Signals) as specified in spec.md §3.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package signal

import (
	"fmt"
	"math"
	"strconv"
)

// Type enumerates the kinds of value a SignalData can hold.
type Type int

const (
	Invalid Type = iota
	Boolean
	Integer
	Float
	Complex
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Complex:
		return "complex"
	default:
		return "invalid"
	}
}

// Data is a tagged 64-bit value union holding one of: an IEEE-754
// double, a signed 64-bit integer, a boolean, or a single-precision
// complex number. Host byte order.
type Data struct {
	typ Type
	f   float64
	i   int64
	b   bool
	c   complex64
}

// NaN returns the float NaN sentinel value.
func NaN() Data { return Data{typ: Float, f: math.NaN()} }

// IsNaN reports whether the value is the float NaN sentinel.
func (d Data) IsNaN() bool { return d.typ == Float && math.IsNaN(d.f) }

func (d Data) Type() Type { return d.typ }

// Constructors.

func FromFloat(v float64) Data     { return Data{typ: Float, f: v} }
func FromInteger(v int64) Data     { return Data{typ: Integer, i: v} }
func FromBoolean(v bool) Data      { return Data{typ: Boolean, b: v} }
func FromComplex(v complex64) Data { return Data{typ: Complex, c: v} }

// Float returns the value cast to float64 regardless of its stored type.
func (d Data) Float() float64 {
	switch d.typ {
	case Float:
		return d.f
	case Integer:
		return float64(d.i)
	case Boolean:
		if d.b {
			return 1
		}
		return 0
	case Complex:
		return float64(real(d.c))
	default:
		return math.NaN()
	}
}

// Integer returns the value cast to int64 regardless of its stored type.
func (d Data) Integer() int64 {
	switch d.typ {
	case Integer:
		return d.i
	case Float:
		return int64(d.f)
	case Boolean:
		if d.b {
			return 1
		}
		return 0
	case Complex:
		return int64(real(d.c))
	default:
		return 0
	}
}

// Boolean returns the value cast to bool regardless of its stored type.
func (d Data) Boolean() bool {
	switch d.typ {
	case Boolean:
		return d.b
	case Integer:
		return d.i != 0
	case Float:
		return d.f != 0
	case Complex:
		return real(d.c) != 0 || imag(d.c) != 0
	default:
		return false
	}
}

// Complex returns the value cast to complex64 regardless of its stored type.
func (d Data) Complex() complex64 {
	switch d.typ {
	case Complex:
		return d.c
	case Float:
		return complex(float32(d.f), 0)
	case Integer:
		return complex(float32(d.i), 0)
	case Boolean:
		if d.b {
			return complex(1, 0)
		}
		return complex(0, 0)
	default:
		return complex(float32(math.NaN()), 0)
	}
}

// Cast returns a copy of d reinterpreted as typ.
func (d Data) Cast(typ Type) Data {
	switch typ {
	case Boolean:
		return FromBoolean(d.Boolean())
	case Integer:
		return FromInteger(d.Integer())
	case Float:
		return FromFloat(d.Float())
	case Complex:
		return FromComplex(d.Complex())
	default:
		return Data{typ: Invalid}
	}
}

// ParseString parses s as typ, returning a Data of that type.
func ParseString(typ Type, s string) (Data, error) {
	switch typ {
	case Boolean:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return Data{}, fmt.Errorf("signal: parse boolean %q: %w", s, err)
		}
		return FromBoolean(v), nil
	case Integer:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Data{}, fmt.Errorf("signal: parse integer %q: %w", s, err)
		}
		return FromInteger(v), nil
	case Float:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Data{}, fmt.Errorf("signal: parse float %q: %w", s, err)
		}
		return FromFloat(v), nil
	case Complex:
		v, err := strconv.ParseComplex(s, 64)
		if err != nil {
			return Data{}, fmt.Errorf("signal: parse complex %q: %w", s, err)
		}
		return FromComplex(complex64(v)), nil
	default:
		return Data{}, fmt.Errorf("signal: cannot parse invalid type")
	}
}

// PrintString formats d using typ's natural representation, with
// precision significant digits for floating-point types (0 means
// strconv's shortest round-trip representation).
func (d Data) PrintString(precision int) string {
	switch d.typ {
	case Boolean:
		return strconv.FormatBool(d.b)
	case Integer:
		return strconv.FormatInt(d.i, 10)
	case Float:
		if math.IsNaN(d.f) {
			return "nan"
		}
		if precision <= 0 {
			return strconv.FormatFloat(d.f, 'g', -1, 64)
		}
		return strconv.FormatFloat(d.f, 'g', precision, 64)
	case Complex:
		re, im := real(d.c), imag(d.c)
		sign := "+"
		if im < 0 {
			sign = "-"
			im = -im
		}
		return fmt.Sprintf("%g%s%gi", re, sign, im)
	default:
		return ""
	}
}

// MarshalJSON emits the underlying value in its natural JSON shape.
func (d Data) MarshalJSON() ([]byte, error) {
	switch d.typ {
	case Boolean:
		return []byte(strconv.FormatBool(d.b)), nil
	case Integer:
		return []byte(strconv.FormatInt(d.i, 10)), nil
	case Float:
		if math.IsNaN(d.f) {
			return []byte(`"nan"`), nil
		}
		return []byte(strconv.FormatFloat(d.f, 'g', -1, 64)), nil
	case Complex:
		return []byte(fmt.Sprintf(`[%g,%g]`, real(d.c), imag(d.c))), nil
	default:
		return []byte("null"), nil
	}
}
