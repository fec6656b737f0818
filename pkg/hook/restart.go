// File: pkg/hook/restart.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hook

import (
	"encoding/json"
	"sync/atomic"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// RestartFunc is how the Restart hook tells its owning Path to restart;
// bound at construction time by whoever assembles a Path's built-in
// chain (pkg/path).
type RestartFunc func()

// Restart is the priority-2 built-in of spec.md §4.5: when a source
// restarts mid-stream (e.g. after reconnect) its sequence typically
// resets to 0 while the consumer's last-seen sequence is far ahead;
// detecting that jump lets the path reset its own state instead of
// treating every subsequent sample as wildly out of order.
type Restart struct {
	Base
	restart  RestartFunc
	prevSeq  uint64
	hasPrev  atomic.Bool
	minJump  uint64 // "prev >> 0" threshold; configurable, default below
}

const defaultRestartJump = 2

// NewRestart constructs the restart built-in, invoking fn whenever it
// detects the reset-sequence pattern.
func NewRestart(fn RestartFunc) *Restart {
	return &Restart{Base: newBase(PriorityRestart, true), restart: fn, minJump: defaultRestartJump}
}

type restartConfig struct {
	MinJump uint64 `json:"min_jump"`
}

func (h *Restart) Parse(raw json.RawMessage) error {
	var cfg restartConfig
	if err := decodeConfig(raw, &cfg); err != nil {
		return err
	}
	if cfg.MinJump > 0 {
		h.minJump = cfg.MinJump
	}
	return nil
}

func (h *Restart) Prepare(input *signal.List) (*signal.List, error) {
	return passthroughPrepare(input)
}

func (h *Restart) Process(s *sample.Sample) error {
	if h.hasPrev.Load() && s.Sequence == 0 && h.prevSeq >= h.minJump {
		if h.restart != nil {
			h.restart()
		}
	}
	h.prevSeq = s.Sequence
	h.hasPrev.Store(true)
	return nil
}

// Restart resets the tracked previous sequence, called by the path
// engine after it actually restarts (spec.md §4.5's Hook.restart).
func (h *Restart) Restart() error {
	h.hasPrev.Store(false)
	h.prevSeq = 0
	return nil
}
