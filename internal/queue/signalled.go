// File: internal/queue/signalled.go
// Package queue
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Signalled pairs a Queue with a wakeup primitive so a blocked reader
// can be woken (spec.md §4.2). A buffered Go channel of capacity 1
// plays the role of the eventfd/condvar pair the spec describes: a
// single pending wakeup is coalesced, exactly like an eventfd counter
// collapsing concurrent writes, and Signalled.PollFD lets a Path
// engine select() across several sources' wakeups uniformly.

package queue

import (
	"github.com/villasnode/node/pkg/sample"
)

// OverflowPolicy selects what Signalled.Push does when the queue is at
// capacity and bounded (spec.md §4.7 PathDestination overrun policy).
type OverflowPolicy int

const (
	// DropOldest evicts the oldest queued entry to make room.
	DropOldest OverflowPolicy = iota
	// DropNewest rejects the incoming push, leaving the queue unchanged.
	DropNewest
	// Block is accepted by NewSignalled, but Signalled.Push never waits:
	// with Block, a push into a full queue returns false and is not
	// counted in Dropped.
	Block
)

// Signalled wraps a Queue with a wakeup channel.
type Signalled struct {
	q        *Queue
	wake     chan struct{}
	overflow OverflowPolicy
	bounded  bool

	dropped uint64
}

// NewSignalled creates a signalled queue of the given capacity/mode.
// bounded controls whether Push applies overflow; unbounded signalled
// queues are used for node-internal pools where capacity is sized to
// never realistically fill.
func NewSignalled(capacity int, mode Mode, bounded bool, overflow OverflowPolicy) *Signalled {
	return &Signalled{
		q:        New(capacity, mode),
		wake:     make(chan struct{}, 1),
		overflow: overflow,
		bounded:  bounded,
	}
}

// PollFD returns the channel a Path engine can select on to learn a
// push happened from empty (spec.md's getPollFDs() surface).
func (s *Signalled) PollFD() <-chan struct{} { return s.wake }

// Cap, Len delegate to the underlying Queue.
func (s *Signalled) Cap() int { return s.q.Cap() }
func (s *Signalled) Len() int { return s.q.Len() }

// Dropped returns the number of entries dropped by the overflow policy.
func (s *Signalled) Dropped() uint64 { return s.dropped }

func (s *Signalled) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
		// already has a pending wakeup; coalesce, like an eventfd add.
	}
}

// Push enqueues item, applying the configured overflow policy if the
// queue is bounded and full. Returns true if item was accepted onto the
// queue (DropOldest always returns true since it makes room first).
func (s *Signalled) Push(item *sample.Sample) bool {
	wasEmpty := s.q.Len() == 0
	if s.q.Push(item) {
		if wasEmpty {
			s.signal()
		}
		return true
	}
	if !s.bounded {
		return false
	}
	switch s.overflow {
	case DropOldest:
		if old, ok := s.q.Pop(); ok {
			old.Decref()
			s.dropped++
		}
		ok := s.q.Push(item)
		if ok {
			s.signal()
		}
		return ok
	case DropNewest:
		s.dropped++
		return false
	default:
		return false
	}
}

// Pop dequeues one item non-blocking.
func (s *Signalled) Pop() (*sample.Sample, bool) { return s.q.Pop() }

// PopMany dequeues up to len(out) items non-blocking.
func (s *Signalled) PopMany(out []*sample.Sample) int { return s.q.PopMany(out) }
