// File: pkg/hook/ma.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MovingAverage keeps a per-signal circular buffer and emits a
// (optionally windowed) running mean, per spec.md §4.5 and this repo's
// window-function expansion (SPEC_FULL.md §C).

package hook

import (
	"encoding/json"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/dsp"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

type maConfig struct {
	indexSelector
	Window int    `json:"window"`
	Type   string `json:"window_type"` // "" | "hann" | "hamming"
}

// MovingAverage implements the ma value-transform hook.
type MovingAverage struct {
	Base
	cfg     maConfig
	window  dsp.WindowType
	coeffs  []float64
	indices []int

	// one circular buffer per selected signal index
	buffers map[int][]float64
	pos     map[int]int
	filled  map[int]int
}

func NewMovingAverage() *MovingAverage {
	return &MovingAverage{Base: newBase(PriorityDefault, false), cfg: maConfig{Window: 8}}
}

func (h *MovingAverage) Parse(raw json.RawMessage) error {
	return decodeConfig(raw, &h.cfg)
}

func (h *MovingAverage) Check() error {
	if h.cfg.Window < 1 {
		return api.ConfigError("", "hook: ma: window must be >= 1")
	}
	return nil
}

func (h *MovingAverage) Prepare(input *signal.List) (*signal.List, error) {
	idx, err := h.cfg.indexSelector.resolve(input)
	if err != nil {
		return nil, err
	}
	h.indices = idx
	h.window = dsp.ParseWindowType(h.cfg.Type)
	h.coeffs = dsp.Coefficients(h.window, h.cfg.Window)

	h.buffers = make(map[int][]float64, len(idx))
	h.pos = make(map[int]int, len(idx))
	h.filled = make(map[int]int, len(idx))
	for _, i := range idx {
		h.buffers[i] = make([]float64, h.cfg.Window)
	}
	return input, nil
}

func (h *MovingAverage) Process(s *sample.Sample) error {
	for _, i := range h.indices {
		if i >= s.Length {
			continue
		}
		buf := h.buffers[i]
		p := h.pos[i]
		buf[p] = s.Data[i].Float()
		h.pos[i] = (p + 1) % len(buf)
		if h.filled[i] < len(buf) {
			h.filled[i]++
		}
		s.Data[i] = signal.FromFloat(h.mean(buf, h.filled[i], h.pos[i]))
	}
	return nil
}

// mean computes the (possibly windowed) average of the n valid
// entries in the circular buffer buf, whose next write slot is pos.
// Coefficient k is applied to the k-th oldest of those n entries, so
// window shape is stable regardless of how much of the buffer has
// filled so far.
func (h *MovingAverage) mean(buf []float64, n, pos int) float64 {
	if n == 0 {
		return 0
	}
	oldest := ((pos-n)%len(buf) + len(buf)) % len(buf)
	var sum, weight float64
	for k := 0; k < n; k++ {
		idx := (oldest + k) % len(buf)
		w := 1.0
		if k < len(h.coeffs) {
			w = h.coeffs[k]
		}
		sum += buf[idx] * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

func (h *MovingAverage) Restart() error {
	for i := range h.buffers {
		h.buffers[i] = make([]float64, h.cfg.Window)
		h.pos[i] = 0
		h.filled[i] = 0
	}
	return nil
}
