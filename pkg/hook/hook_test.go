// File: pkg/hook/hook_test.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hook

import (
	"testing"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

func TestFixTsStampsUnsetFields(t *testing.T) {
	h := NewFixTs()
	s := sample.NewFree(1)
	s.Length = 1

	if err := h.Process(s); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !s.Flags.Has(sample.HasTsReceived) || !s.Flags.Has(sample.HasTsOrigin) || !s.Flags.Has(sample.HasSequence) {
		t.Fatalf("expected all three fields stamped, got flags=%v", s.Flags)
	}
	if s.TsOrigin != s.TsReceived {
		t.Fatalf("TsOrigin should default to TsReceived when unset")
	}
}

func TestFixTsLeavesSetFieldsAlone(t *testing.T) {
	h := NewFixTs()
	s := sample.NewFree(1)
	s.Sequence = 99
	s.Flags = s.Flags.Set(sample.HasSequence)

	if err := h.Process(s); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Sequence != 99 {
		t.Fatalf("Sequence mutated: got %d, want 99", s.Sequence)
	}
}

func TestRestartDetectsSequenceReset(t *testing.T) {
	var fired bool
	h := NewRestart(func() { fired = true })
	h.minJump = 2

	s := sample.NewFree(1)
	s.Sequence = 10
	if err := h.Process(s); err != nil {
		t.Fatalf("Process: %v", err)
	}
	s.Sequence = 0
	if err := h.Process(s); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !fired {
		t.Fatalf("expected restart callback to fire on sequence reset")
	}
}

func TestDropRejectsOutOfOrder(t *testing.T) {
	h := NewDrop()
	s := sample.NewFree(1)
	s.Sequence = 5
	if err := h.Process(s); err != nil {
		t.Fatalf("Process: %v", err)
	}
	s.Sequence = 5
	if err := h.Process(s); err != api.ErrSkipSample {
		t.Fatalf("Process = %v, want ErrSkipSample", err)
	}
	s.Sequence = 4
	if err := h.Process(s); err != api.ErrSkipSample {
		t.Fatalf("Process (older) = %v, want ErrSkipSample", err)
	}
	s.Sequence = 6
	if err := h.Process(s); err != nil {
		t.Fatalf("Process (newer) = %v, want nil", err)
	}
}

func TestScaleAppliesLinearTransform(t *testing.T) {
	h := NewScale()
	h.cfg.Scale = 2
	h.cfg.Offset = 1
	list := signal.NewList()
	list.Add(signal.Descriptor{Name: "v", Type: signal.Float})
	if _, err := h.Prepare(list); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	s := sample.NewFree(1)
	s.Length = 1
	s.Data[0] = signal.FromFloat(3)
	if err := h.Process(s); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := s.Data[0].Float(); got != 7 {
		t.Fatalf("scaled value = %v, want 7", got)
	}
}

func TestMovingAverageRectangular(t *testing.T) {
	h := NewMovingAverage()
	h.cfg.Window = 3
	list := signal.NewList()
	list.Add(signal.Descriptor{Name: "v", Type: signal.Float})
	if _, err := h.Prepare(list); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	values := []float64{1, 2, 3, 4}
	want := []float64{1, 1.5, 2, 3} // running mean over last up-to-3 values
	for i, v := range values {
		s := sample.NewFree(1)
		s.Length = 1
		s.Data[0] = signal.FromFloat(v)
		if err := h.Process(s); err != nil {
			t.Fatalf("Process[%d]: %v", i, err)
		}
		if got := s.Data[0].Float(); got != want[i] {
			t.Fatalf("mean[%d] = %v, want %v", i, got, want[i])
		}
	}
}

func TestLimitRateSkipsWithinDeadTime(t *testing.T) {
	h := NewLimitRate()
	h.cfg.Rate = 1 // 1 Hz -> 1s dead time
	h.clock = ClockOrigin
	h.deadTime = 1e9 // 1 second in ns, set directly to skip Check()

	s1 := sample.NewFree(1)
	s1.TsOrigin = sample.Timespec{Sec: 0}
	if err := h.Process(s1); err != nil {
		t.Fatalf("Process s1: %v", err)
	}

	s2 := sample.NewFree(1)
	s2.TsOrigin = sample.Timespec{Sec: 0, Nsec: 500_000_000}
	if err := h.Process(s2); err != api.ErrSkipSample {
		t.Fatalf("Process s2 = %v, want ErrSkipSample", err)
	}

	s3 := sample.NewFree(1)
	s3.TsOrigin = sample.Timespec{Sec: 1, Nsec: 100_000_000}
	if err := h.Process(s3); err != nil {
		t.Fatalf("Process s3: %v", err)
	}
}

func TestEBMIntegratesTrapezoidally(t *testing.T) {
	h := NewEBM()
	h.cfg.Pairs = []phasePair{{Voltage: "v", Current: "i"}}
	list := signal.NewList()
	list.Add(signal.Descriptor{Name: "v", Type: signal.Float})
	list.Add(signal.Descriptor{Name: "i", Type: signal.Float})
	out, err := h.Prepare(list)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("output list len = %d, want 3", out.Len())
	}

	s1 := sample.NewFree(3)
	s1.Length = 2
	s1.Data[0] = signal.FromFloat(10)
	s1.Data[1] = signal.FromFloat(2)
	s1.TsOrigin = sample.Timespec{Sec: 0}
	if err := h.Process(s1); err != nil {
		t.Fatalf("Process s1: %v", err)
	}
	if s1.Data[2].Float() != 0 {
		t.Fatalf("first sample should contribute zero energy, got %v", s1.Data[2].Float())
	}

	s2 := sample.NewFree(3)
	s2.Length = 2
	s2.Data[0] = signal.FromFloat(10)
	s2.Data[1] = signal.FromFloat(2)
	s2.TsOrigin = sample.Timespec{Sec: 1}
	if err := h.Process(s2); err != nil {
		t.Fatalf("Process s2: %v", err)
	}
	want := 20.0 // (10*2 + 10*2)/2 * 1s
	if got := s2.Data[2].Float(); got != want {
		t.Fatalf("energy = %v, want %v", got, want)
	}
}

func TestRegisterValueHooksPopulatesNames(t *testing.T) {
	reg := &fakeRegistry{}
	RegisterValueHooks(reg)
	want := []string{"scale", "cast", "round", "ma", "limit_rate", "shift_ts", "shift_seq", "ebm", "lua"}
	if len(reg.names) != len(want) {
		t.Fatalf("registered %d hooks, want %d", len(reg.names), len(want))
	}
}

type fakeRegistry struct {
	names []string
}

func (r *fakeRegistry) Register(name string, _ api.HookFactory) {
	r.names = append(r.names, name)
}
