// File: pkg/hook/fixts.go
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

// FixTs is the priority-1 built-in of spec.md §4.5: it stamps
// ts.received (always, if unset) and ts.origin (copied from received
// if the node didn't set it), and assigns a monotonically increasing
// sequence number if the node left one unset.
type FixTs struct {
	Base
	nextSeq atomic.Uint64
}

// NewFixTs constructs the fix_ts built-in.
func NewFixTs() *FixTs {
	return &FixTs{Base: newBase(PriorityFixTs, true)}
}

func (h *FixTs) Parse(raw json.RawMessage) error { return nil }

func (h *FixTs) Prepare(input *signal.List) (*signal.List, error) {
	return passthroughPrepare(input)
}

func (h *FixTs) Process(s *sample.Sample) error {
	if !s.Flags.Has(sample.HasTsReceived) {
		s.TsReceived = sample.Now()
		s.Flags = s.Flags.Set(sample.HasTsReceived)
	}
	if !s.Flags.Has(sample.HasTsOrigin) {
		s.TsOrigin = s.TsReceived
		s.Flags = s.Flags.Set(sample.HasTsOrigin)
	}
	if !s.Flags.Has(sample.HasSequence) {
		s.Sequence = h.nextSeq.Add(1) - 1
		s.Flags = s.Flags.Set(sample.HasSequence)
	}
	return nil
}
