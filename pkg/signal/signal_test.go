package signal_test

import (
	"math"
	"testing"

	"github.com/villasnode/node/pkg/signal"
)

func TestParsePrintRoundTrip(t *testing.T) {
	cases := []struct {
		typ signal.Type
		s   string
	}{
		{signal.Boolean, "true"},
		{signal.Integer, "-42"},
		{signal.Float, "3.14159"},
	}
	for _, c := range cases {
		d, err := signal.ParseString(c.typ, c.s)
		if err != nil {
			t.Fatalf("ParseString(%v, %q): %v", c.typ, c.s, err)
		}
		got, err := signal.ParseString(c.typ, d.PrintString(0))
		if err != nil {
			t.Fatalf("round-trip parse: %v", err)
		}
		if got != d {
			t.Errorf("round trip mismatch for %v: got %+v want %+v", c.typ, got, d)
		}
	}
}

func TestNaNSentinel(t *testing.T) {
	n := signal.NaN()
	if !n.IsNaN() {
		t.Fatal("expected IsNaN true")
	}
	if !math.IsNaN(n.Float()) {
		t.Fatal("expected underlying float to be NaN")
	}
}

func TestCast(t *testing.T) {
	f := signal.FromFloat(7.0)
	i := f.Cast(signal.Integer)
	if i.Integer() != 7 {
		t.Fatalf("cast float->integer: got %d want 7", i.Integer())
	}
	b := signal.FromInteger(0).Cast(signal.Boolean)
	if b.Boolean() {
		t.Fatal("cast integer 0 -> boolean should be false")
	}
}

func TestList(t *testing.T) {
	l := signal.NewList()
	l.Add(signal.Descriptor{Name: "v1", Type: signal.Float})
	l.Add(signal.Descriptor{Name: "v2", Type: signal.Integer})

	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if idx := l.IndexOf("v2"); idx != 1 {
		t.Fatalf("IndexOf(v2) = %d, want 1", idx)
	}
	if idx := l.IndexOf("missing"); idx != -1 {
		t.Fatalf("IndexOf(missing) = %d, want -1", idx)
	}
	d, ok := l.At(0)
	if !ok || d.Name != "v1" {
		t.Fatalf("At(0) = %+v, %v", d, ok)
	}
}
