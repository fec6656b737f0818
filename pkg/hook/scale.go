// File: pkg/hook/scale.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scale applies v := v*scale + offset over configured signal indices,
// per spec.md §4.5. Grounded on internal/normalize/normalizer.go's
// per-field validate-and-transform loop shape.

package hook

import (
	"encoding/json"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

type scaleConfig struct {
	indexSelector
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
}

// Scale implements the scale value-transform hook.
type Scale struct {
	Base
	cfg     scaleConfig
	indices []int
}

// NewScale constructs the scale hook, defaulting scale to 1 and offset
// to 0 (identity) until Parse overrides them.
func NewScale() *Scale {
	return &Scale{Base: newBase(PriorityDefault, false), cfg: scaleConfig{Scale: 1}}
}

func (h *Scale) Parse(raw json.RawMessage) error {
	return decodeConfig(raw, &h.cfg)
}

func (h *Scale) Prepare(input *signal.List) (*signal.List, error) {
	idx, err := h.cfg.resolve(input)
	if err != nil {
		return nil, err
	}
	h.indices = idx
	return input, nil
}

func (h *Scale) Process(s *sample.Sample) error {
	for _, i := range h.indices {
		if i >= s.Length {
			continue
		}
		v := s.Data[i].Float()*h.cfg.Scale + h.cfg.Offset
		s.Data[i] = signal.FromFloat(v)
	}
	return nil
}
