// File: pkg/hook/shift.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hook

import (
	"encoding/json"
	"time"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

type shiftTsConfig struct {
	OffsetSeconds float64 `json:"offset"`
	Clock         string  `json:"clock"` // "origin" | "received"
}

// ShiftTs adds a configured offset to either the origin or received
// timestamp, per spec.md §4.5.
type ShiftTs struct {
	Base
	cfg    shiftTsConfig
	offset time.Duration
	clock  RateClock
}

func NewShiftTs() *ShiftTs {
	return &ShiftTs{Base: newBase(PriorityDefault, false)}
}

func (h *ShiftTs) Parse(raw json.RawMessage) error {
	return decodeConfig(raw, &h.cfg)
}

func (h *ShiftTs) Check() error {
	switch h.cfg.Clock {
	case "", "origin":
		h.clock = ClockOrigin
	case "received":
		h.clock = ClockReceived
	default:
		return api.ConfigError("", "hook: shift_ts: unknown clock %q", h.cfg.Clock)
	}
	h.offset = time.Duration(h.cfg.OffsetSeconds * float64(time.Second))
	return nil
}

func (h *ShiftTs) Prepare(input *signal.List) (*signal.List, error) {
	return passthroughPrepare(input)
}

func (h *ShiftTs) Process(s *sample.Sample) error {
	switch h.clock {
	case ClockReceived:
		s.TsReceived = sample.FromTime(s.TsReceived.Time().Add(h.offset))
	default:
		s.TsOrigin = sample.FromTime(s.TsOrigin.Time().Add(h.offset))
	}
	return nil
}

type shiftSeqConfig struct {
	Offset int64 `json:"offset"`
}

// ShiftSeq adds a configured offset to the sample's sequence number.
type ShiftSeq struct {
	Base
	cfg shiftSeqConfig
}

func NewShiftSeq() *ShiftSeq {
	return &ShiftSeq{Base: newBase(PriorityDefault, false)}
}

func (h *ShiftSeq) Parse(raw json.RawMessage) error {
	return decodeConfig(raw, &h.cfg)
}

func (h *ShiftSeq) Prepare(input *signal.List) (*signal.List, error) {
	return passthroughPrepare(input)
}

func (h *ShiftSeq) Process(s *sample.Sample) error {
	s.Sequence = uint64(int64(s.Sequence) + h.cfg.Offset)
	return nil
}
