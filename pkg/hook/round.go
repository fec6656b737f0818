// File: pkg/hook/round.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hook

import (
	"encoding/json"
	"math"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

type roundConfig struct {
	indexSelector
	Decimals int `json:"decimals"`
}

// Round rounds configured signal indices to a configured number of
// decimal places, per spec.md §4.5.
type Round struct {
	Base
	cfg     roundConfig
	factor  float64
	indices []int
}

func NewRound() *Round {
	return &Round{Base: newBase(PriorityDefault, false)}
}

func (h *Round) Parse(raw json.RawMessage) error {
	if err := decodeConfig(raw, &h.cfg); err != nil {
		return err
	}
	h.factor = math.Pow(10, float64(h.cfg.Decimals))
	return nil
}

func (h *Round) Prepare(input *signal.List) (*signal.List, error) {
	idx, err := h.cfg.indexSelector.resolve(input)
	if err != nil {
		return nil, err
	}
	h.indices = idx
	return input, nil
}

func (h *Round) Process(s *sample.Sample) error {
	for _, i := range h.indices {
		if i >= s.Length {
			continue
		}
		v := s.Data[i].Float()
		s.Data[i] = signal.FromFloat(math.Round(v*h.factor) / h.factor)
	}
	return nil
}
