// File: pkg/hook/cast.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hook

import (
	"encoding/json"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

type castConfig struct {
	indexSelector
	Type string `json:"type"` // "boolean" | "integer" | "float" | "complex"
}

// Cast reinterprets configured signal indices as a new underlying
// type, per spec.md §4.5.
type Cast struct {
	Base
	cfg     castConfig
	target  signal.Type
	indices []int
}

func NewCast() *Cast {
	return &Cast{Base: newBase(PriorityDefault, false)}
}

func (h *Cast) Parse(raw json.RawMessage) error {
	if err := decodeConfig(raw, &h.cfg); err != nil {
		return err
	}
	switch h.cfg.Type {
	case "boolean":
		h.target = signal.Boolean
	case "integer":
		h.target = signal.Integer
	case "float":
		h.target = signal.Float
	case "complex":
		h.target = signal.Complex
	default:
		return api.ConfigError("", "hook: cast: unknown target type %q", h.cfg.Type)
	}
	return nil
}

func (h *Cast) Check() error {
	if h.target == signal.Invalid {
		return api.ConfigError("", "hook: cast: target type not set")
	}
	return nil
}

func (h *Cast) Prepare(input *signal.List) (*signal.List, error) {
	idx, err := h.cfg.indexSelector.resolve(input)
	if err != nil {
		return nil, err
	}
	h.indices = idx
	return input, nil
}

func (h *Cast) Process(s *sample.Sample) error {
	for _, i := range h.indices {
		if i >= s.Length {
			continue
		}
		s.Data[i] = s.Data[i].Cast(h.target)
	}
	return nil
}
