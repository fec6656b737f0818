// File: pkg/sample/sample.go
// Package sample implements the Sample payload unit and its
// reference-counted lifecycle, per spec.md §3 and §4.1.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package sample

import (
	"sync/atomic"

	"github.com/villasnode/node/pkg/signal"
)

// Flags is the per-Sample bitset of which fields carry meaningful data.
type Flags uint32

const (
	HasSequence Flags = 1 << iota
	HasTsOrigin
	HasTsReceived
	HasData
	HasSignals
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }
func (f Flags) Set(bit Flags) Flags { return f | bit }
func (f Flags) Clear(bit Flags) Flags { return f &^ bit }

// Releaser is the minimal back-reference a Sample needs to return
// itself to its owning Pool once refcnt drops to zero. pkg/pool.Pool
// implements this; sample itself has no dependency on pkg/pool.
type Releaser interface {
	Put(s *Sample)
}

// Sample is the unit of data exchanged between nodes, paths, and hooks:
// a timestamped, sequenced, typed multi-channel value vector drawn from
// a Pool.
type Sample struct {
	Sequence   uint64
	TsOrigin   Timespec
	TsReceived Timespec
	Flags      Flags

	Length   int // number of valid Data entries
	Capacity int // allocated Data entries

	// Signals is a weak reference to the SignalList describing the
	// first Length entries of Data. May be nil; when nil, HasSignals
	// must be clear and values must not be printed textually.
	Signals *signal.List

	Data []signal.Data

	refcnt atomic.Uint32
	pool   Releaser // nil for samples not drawn from a Pool (e.g. tests)
}

// NewFree allocates a standalone Sample not backed by any Pool, refcount
// 1. Intended for tests and for code paths (e.g. internal control-plane
// messages) that do not need pooled memory.
func NewFree(capacity int) *Sample {
	s := &Sample{Capacity: capacity, Data: make([]signal.Data, capacity)}
	s.refcnt.Store(1)
	return s
}

// RefCount returns the current reference count. Diagnostic only: never
// branch hot-path logic on a racily-read refcount other than to enforce
// the "copy before mutate" policy documented on Sample.CanMutate.
func (s *Sample) RefCount() uint32 { return s.refcnt.Load() }

// Incref increments the reference count. Must be called once per
// consumer before handing the Sample to another queue/holder.
func (s *Sample) Incref() {
	s.refcnt.Add(1)
}

// IncrefMany increments the reference count by n in one RMW, amortizing
// the atomic overhead when fanning out to n destinations at once.
func (s *Sample) IncrefMany(n uint32) {
	if n == 0 {
		return
	}
	s.refcnt.Add(n)
}

// Decref decrements the reference count; when it reaches zero the
// Sample is returned to its Pool (if any) and must not be touched
// again by the caller.
func (s *Sample) Decref() {
	if s.refcnt.Add(^uint32(0)) == 0 { // atomic decrement by 1
		s.release()
	}
}

// DecrefMany decrements the reference count by n in one RMW.
func (s *Sample) DecrefMany(n uint32) {
	if n == 0 {
		return
	}
	if s.refcnt.Add(^(n - 1)) == 0 {
		s.release()
	}
}

func (s *Sample) release() {
	if s.pool != nil {
		s.pool.Put(s)
	}
}

// Pool returns the Releaser this Sample will return itself to when its
// refcount reaches zero, or nil if it is not pool-backed.
func (s *Sample) Pool() Releaser { return s.pool }

// Attach binds s to its owning Pool and sets refcnt to 1. Called by a
// Pool implementation immediately after carving a block for a new
// Sample (spec.md §4.1's pool_get contract); not for use outside
// pkg/pool.
func Attach(s *Sample, pool Releaser) {
	s.pool = pool
	s.refcnt.Store(1)
}

// CanMutate reports whether the caller holds the only reference and may
// therefore mutate the Sample in place instead of copying it first
// (spec.md §5 shared-resource policy).
func (s *Sample) CanMutate() bool { return s.refcnt.Load() == 1 }

// Reset clears a Sample's content for reuse by a Pool, leaving Capacity,
// Data's backing array, and pool untouched.
func (s *Sample) Reset() {
	s.Sequence = 0
	s.TsOrigin = Timespec{}
	s.TsReceived = Timespec{}
	s.Flags = 0
	s.Length = 0
	s.Signals = nil
}

// Copy copies the min(src.Length, dst.Capacity) Data entries, all
// timestamps, the sequence, and Flags&^HasSignals from src into dst.
// dst.Signals is left untouched so the caller controls typing
// (spec.md §4.1).
func Copy(dst, src *Sample) {
	n := src.Length
	if dst.Capacity < n {
		n = dst.Capacity
	}
	copy(dst.Data[:n], src.Data[:n])
	dst.Length = n
	dst.Sequence = src.Sequence
	dst.TsOrigin = src.TsOrigin
	dst.TsReceived = src.TsReceived
	dst.Flags = src.Flags &^ HasSignals
}
