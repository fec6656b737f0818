// File: pkg/hook/limit_rate.go
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

// RateClock selects which clock limit_rate measures dead-time against.
type RateClock int

const (
	ClockLocal RateClock = iota
	ClockOrigin
	ClockReceived
)

type limitRateConfig struct {
	Rate  float64 `json:"rate"` // samples/sec; 0 disables limiting
	Clock string  `json:"clock"`
}

// LimitRate enforces a minimum dead-time between emitted samples, per
// spec.md §4.5.
type LimitRate struct {
	Base
	cfg      limitRateConfig
	clock    RateClock
	deadTime time.Duration
	last     sample.Timespec
	hasLast  bool
	now      func() time.Time // overridable for tests
}

func NewLimitRate() *LimitRate {
	return &LimitRate{Base: newBase(PriorityDefault, false), now: time.Now}
}

func (h *LimitRate) Parse(raw json.RawMessage) error {
	return decodeConfig(raw, &h.cfg)
}

func (h *LimitRate) Check() error {
	if h.cfg.Rate < 0 {
		return api.ConfigError("", "hook: limit_rate: rate must be >= 0")
	}
	switch h.cfg.Clock {
	case "", "local":
		h.clock = ClockLocal
	case "origin":
		h.clock = ClockOrigin
	case "received":
		h.clock = ClockReceived
	default:
		return api.ConfigError("", "hook: limit_rate: unknown clock %q", h.cfg.Clock)
	}
	if h.cfg.Rate > 0 {
		h.deadTime = time.Duration(float64(time.Second) / h.cfg.Rate)
	}
	return nil
}

func (h *LimitRate) Prepare(input *signal.List) (*signal.List, error) {
	return passthroughPrepare(input)
}

func (h *LimitRate) Process(s *sample.Sample) error {
	if h.deadTime == 0 {
		return nil
	}
	current := h.currentTime(s)
	if h.hasLast && current.Sub(h.last) < h.deadTime {
		return api.ErrSkipSample
	}
	h.last = current
	h.hasLast = true
	return nil
}

func (h *LimitRate) currentTime(s *sample.Sample) sample.Timespec {
	switch h.clock {
	case ClockOrigin:
		return s.TsOrigin
	case ClockReceived:
		return s.TsReceived
	default:
		return sample.FromTime(h.now())
	}
}

func (h *LimitRate) Restart() error {
	h.hasLast = false
	return nil
}
