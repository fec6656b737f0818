package sample_test

import (
	"testing"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

type fakePool struct {
	released []*sample.Sample
}

func (p *fakePool) Put(s *sample.Sample) { p.released = append(p.released, s) }

func TestRefcountLifecycle(t *testing.T) {
	p := &fakePool{}
	s := sample.NewFree(4)
	sample.Attach(s, p)

	if s.RefCount() != 1 {
		t.Fatalf("RefCount() = %d, want 1", s.RefCount())
	}
	s.Incref()
	if s.RefCount() != 2 {
		t.Fatalf("RefCount() = %d, want 2", s.RefCount())
	}
	if s.CanMutate() {
		t.Fatal("CanMutate() should be false with refcount 2")
	}
	s.Decref()
	if len(p.released) != 0 {
		t.Fatal("sample should not be released yet")
	}
	s.Decref()
	if len(p.released) != 1 || p.released[0] != s {
		t.Fatalf("sample should be released to pool exactly once, got %+v", p.released)
	}
}

func TestIncrefDecrefMany(t *testing.T) {
	p := &fakePool{}
	s := sample.NewFree(1)
	sample.Attach(s, p)
	s.IncrefMany(3) // refcnt now 4
	s.DecrefMany(3) // back to 1
	if len(p.released) != 0 {
		t.Fatal("should not be released")
	}
	s.Decref()
	if len(p.released) != 1 {
		t.Fatal("should be released after final decref")
	}
}

func TestCopyRespectsCapacityAndLeavesSignals(t *testing.T) {
	src := sample.NewFree(3)
	src.Length = 3
	src.Data[0] = signal.FromFloat(1)
	src.Data[1] = signal.FromFloat(2)
	src.Data[2] = signal.FromFloat(3)
	src.Sequence = 42
	src.Flags = sample.HasData | sample.HasSignals
	list := signal.NewList()
	src.Signals = list

	dst := sample.NewFree(2)
	dstSignals := signal.NewList()
	dst.Signals = dstSignals

	sample.Copy(dst, src)

	if dst.Length != 2 {
		t.Fatalf("Length = %d, want 2 (capped by dst.Capacity)", dst.Length)
	}
	if dst.Data[0].Float() != 1 || dst.Data[1].Float() != 2 {
		t.Fatalf("unexpected copied data: %+v", dst.Data[:2])
	}
	if dst.Sequence != 42 {
		t.Fatalf("Sequence = %d, want 42", dst.Sequence)
	}
	if dst.Flags.Has(sample.HasSignals) {
		t.Fatal("Copy must not set HasSignals on dst")
	}
	if dst.Signals != dstSignals {
		t.Fatal("Copy must not touch dst.Signals")
	}
}

func TestSampleCopyTwiceRoundTrips(t *testing.T) {
	src := sample.NewFree(2)
	src.Length = 2
	src.Data[0] = signal.FromInteger(7)
	src.Data[1] = signal.FromInteger(8)

	dst := sample.NewFree(2)
	sample.Copy(dst, src)

	src2 := sample.NewFree(2)
	sample.Copy(src2, dst)

	for i := 0; i < 2; i++ {
		if src2.Data[i] != src.Data[i] {
			t.Fatalf("round-trip copy mismatch at %d: got %+v want %+v", i, src2.Data[i], src.Data[i])
		}
	}
}
