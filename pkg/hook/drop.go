// File: pkg/hook/drop.go
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

// Drop is the priority-3 built-in of spec.md §4.5: discards
// out-of-order samples by keeping the last delivered sequence and
// rejecting any new sample with sequence <= last.
type Drop struct {
	Base
	lastSeq uint64
	hasLast bool
}

// NewDrop constructs the drop built-in.
func NewDrop() *Drop {
	return &Drop{Base: newBase(PriorityDrop, true)}
}

func (h *Drop) Parse(raw json.RawMessage) error { return nil }

func (h *Drop) Prepare(input *signal.List) (*signal.List, error) {
	return passthroughPrepare(input)
}

func (h *Drop) Process(s *sample.Sample) error {
	if h.hasLast && int64(s.Sequence-h.lastSeq) <= 0 {
		return api.ErrSkipSample
	}
	h.lastSeq = s.Sequence
	h.hasLast = true
	return nil
}

func (h *Drop) Restart() error {
	h.hasLast = false
	h.lastSeq = 0
	return nil
}
