// File: pkg/hook/ebm.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// EBM (energy metric) integrates v_phase * i_phase across configured
// (voltage, current) index pairs using the trapezoidal rule between
// consecutive samples, per spec.md §4.5. Grounded on
// internal/normalize/normalizer.go's per-field accumulation idiom,
// generalized from a single validated value to a running integral.

package hook

import (
	"encoding/json"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// phasePair names one (voltage, current) channel pair to integrate.
type phasePair struct {
	Voltage string `json:"voltage"`
	Current string `json:"current"`
	Name    string `json:"name"` // output channel name; defaults to "<voltage>_<current>_energy"
}

type ebmConfig struct {
	Pairs []phasePair `json:"pairs"`
}

type ebmState struct {
	vIdx, iIdx int
	accum      float64
	lastV      float64
	lastI      float64
	lastTs     sample.Timespec
	hasLast    bool
}

// EBM integrates power across configured voltage/current channel
// pairs, appending one running-energy output channel per pair.
type EBM struct {
	Base
	cfg     ebmConfig
	states  []*ebmState
	baseLen int // number of input channels before the appended energy outputs
}

func NewEBM() *EBM {
	return &EBM{Base: newBase(PriorityDefault, false)}
}

func (h *EBM) Parse(raw json.RawMessage) error {
	return decodeConfig(raw, &h.cfg)
}

func (h *EBM) Check() error {
	if len(h.cfg.Pairs) == 0 {
		return api.ConfigError("", "hook: ebm: at least one voltage/current pair is required")
	}
	for _, p := range h.cfg.Pairs {
		if p.Voltage == "" || p.Current == "" {
			return api.ConfigError("", "hook: ebm: pair missing voltage or current channel name")
		}
	}
	return nil
}

func (h *EBM) Prepare(input *signal.List) (*signal.List, error) {
	output := signal.NewList()
	for _, d := range input.All() {
		output.Add(d)
	}
	h.baseLen = input.Len()

	h.states = make([]*ebmState, 0, len(h.cfg.Pairs))
	for _, p := range h.cfg.Pairs {
		vIdx := input.IndexOf(p.Voltage)
		iIdx := input.IndexOf(p.Current)
		if vIdx < 0 {
			return nil, api.ConfigError("", "hook: ebm: unknown voltage channel %q", p.Voltage)
		}
		if iIdx < 0 {
			return nil, api.ConfigError("", "hook: ebm: unknown current channel %q", p.Current)
		}
		name := p.Name
		if name == "" {
			name = p.Voltage + "_" + p.Current + "_energy"
		}
		output.Add(signal.Descriptor{Name: name, Unit: "J", Type: signal.Float})
		h.states = append(h.states, &ebmState{vIdx: vIdx, iIdx: iIdx})
	}
	return output, nil
}

func (h *EBM) Process(s *sample.Sample) error {
	for n, st := range h.states {
		if st.vIdx >= s.Length || st.iIdx >= s.Length {
			continue
		}
		v := s.Data[st.vIdx].Float()
		i := s.Data[st.iIdx].Float()
		if st.hasLast {
			dt := s.TsOrigin.Sub(st.lastTs).Seconds()
			if dt > 0 {
				st.accum += (st.lastV*st.lastI + v*i) / 2 * dt
			}
		}
		st.lastV, st.lastI, st.lastTs, st.hasLast = v, i, s.TsOrigin, true

		idx := h.baseLen + n
		if idx >= 0 && idx < s.Capacity {
			s.Data[idx] = signal.FromFloat(st.accum)
			if idx+1 > s.Length {
				s.Length = idx + 1
			}
		}
	}
	return nil
}

func (h *EBM) Restart() error {
	for _, st := range h.states {
		st.accum = 0
		st.hasLast = false
	}
	return nil
}
