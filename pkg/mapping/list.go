// File: pkg/mapping/list.go
// Package mapping
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package mapping

import (
	"fmt"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// NodeLookup resolves a configured node name to its live instance,
// satisfied by pkg/supernode's node registry at prepare time.
type NodeLookup interface {
	Lookup(name string) (api.Node, bool)
}

// StatsSource resolves a "<metric>.<type>" selector (spec.md §4.4's
// stats selector) to a current numeric value, satisfied by pkg/stats.
type StatsSource interface {
	Value(metric, typ string) (float64, bool)
}

// List is an ordered set of Entries describing everything one
// PathSource contributes to a muxed Sample. Built by Add before
// Prepare; immutable after.
type List struct {
	entries []*Entry
	length  int
	ready   bool
}

// NewList creates an empty List.
func NewList() *List { return &List{} }

// Add appends a parsed Entry. Must be called before Prepare.
func (l *List) Add(e *Entry) {
	if l.ready {
		panic("mapping: Add called after Prepare")
	}
	l.entries = append(l.entries, e)
}

// AddExpr parses expr and appends the resulting Entry.
func (l *List) AddExpr(expr string) error {
	e, err := Parse(expr)
	if err != nil {
		return err
	}
	l.Add(e)
	return nil
}

// Entries returns the list's Entries in declaration order.
func (l *List) Entries() []*Entry { return l.entries }

// Len returns the total muxed length assigned by Prepare.
func (l *List) Len() int { return l.length }

// Prepare resolves every Entry's node reference and, for by-name data
// selectors, its signal index; it assigns each Entry a contiguous
// Offset in the muxed sample, and returns the total muxed length
// (spec.md §4.4). Must be called exactly once, before Remap.
func (l *List) Prepare(nodes NodeLookup) (int, error) {
	if l.ready {
		return l.length, nil
	}
	offset := 0
	for _, e := range l.entries {
		node, ok := nodes.Lookup(e.NodeName)
		if !ok {
			return 0, &api.Error{Kind: api.KindConfig, Message: fmt.Sprintf("mapping: unknown node %q in %q", e.NodeName, e.raw)}
		}
		e.Node = node

		length, err := resolveLength(e, node.OutputSignals())
		if err != nil {
			return 0, err
		}
		e.Offset = offset
		e.Length = length
		offset += length
	}
	l.length = offset
	l.ready = true
	return l.length, nil
}

func resolveLength(e *Entry, signals *signal.List) (int, error) {
	switch e.Kind {
	case KindData:
		if e.SignalName != "" {
			idx := -1
			if signals != nil {
				idx = signals.IndexOf(e.SignalName)
			}
			if idx < 0 {
				return 0, &api.Error{Kind: api.KindConfig, Message: fmt.Sprintf("mapping: %q: unknown signal %q", e.raw, e.SignalName)}
			}
			e.First, e.Last = idx, idx
			return 1, nil
		}
		return e.Last - e.First + 1, nil
	case KindTimestamp:
		return 2, nil
	case KindHeader:
		return 1, nil
	case KindStats:
		return 1, nil
	default:
		return 0, &api.Error{Kind: api.KindConfig, Message: fmt.Sprintf("mapping: %q: unknown selector kind", e.raw)}
	}
}

// Remap copies every Entry's selected fields from in into their
// assigned slots of out. stats may be nil if the List has no KindStats
// entries; a nil stats with a stats entry present is a config error
// caught at Prepare time by the caller wiring the path, not here.
func (l *List) Remap(out, in *sample.Sample, stats StatsSource) error {
	if !l.ready {
		return &api.Error{Kind: api.KindConfig, Message: "mapping: Remap called before Prepare"}
	}
	for _, e := range l.entries {
		if err := remapEntry(e, out, in, stats); err != nil {
			return err
		}
	}
	if out.Length < l.length {
		out.Length = l.length
	}
	return nil
}

func remapEntry(e *Entry, out, in *sample.Sample, stats StatsSource) error {
	switch e.Kind {
	case KindData:
		n := e.Last - e.First + 1
		if e.First+n > in.Length || e.Offset+n > out.Capacity {
			return &api.Error{Kind: api.KindRuntime, Message: fmt.Sprintf("mapping: %q: index out of range (in.Length=%d out.Capacity=%d)", e.raw, in.Length, out.Capacity)}
		}
		copy(out.Data[e.Offset:e.Offset+n], in.Data[e.First:e.First+n])

	case KindTimestamp:
		ts := in.TsReceived
		if e.TsField == TsOrigin {
			ts = in.TsOrigin
		}
		out.Data[e.Offset] = signal.FromInteger(ts.Sec)
		out.Data[e.Offset+1] = signal.FromInteger(ts.Nsec)

	case KindHeader:
		var v int64
		if e.HdrField == HdrSequence {
			v = int64(in.Sequence)
		} else {
			v = int64(in.Length)
		}
		out.Data[e.Offset] = signal.FromInteger(v)

	case KindStats:
		var v float64
		if stats != nil {
			v, _ = stats.Value(e.StatMetric, e.StatType)
		}
		out.Data[e.Offset] = signal.FromFloat(v)
	}
	return nil
}
