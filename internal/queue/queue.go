// File: internal/queue/queue.go
// Package queue implements the lock-free ring buffer of spec.md §4.2:
// a power-of-two-sized ring of pointers with separate atomic head/tail,
// selectable at construction between single- and multi-producer/consumer
// configurations.
//
// Grounded on core/concurrency/lock_free_queue.go's Vyukov MPMC cell
// design (per-slot sequence numbers resolve the ABA/overwrite race
// without a global lock); retyped here from a generic LockFreeQueue[T]
// to *sample.Sample and extended with an explicit SPSC fast path.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package queue

import (
	"sync/atomic"

	"github.com/villasnode/node/pkg/sample"
)

const cacheLinePad = 64

// cell carries one slot's sequence number alongside its payload so
// producers/consumers can detect whether a slot is available without a
// separate lock (Vyukov's MPMC queue).
type cell struct {
	sequence atomic.Uint64
	data     *sample.Sample
}

// Mode selects the queue's concurrency configuration. SPSC skips the
// sequence-number CAS retry loop in favor of plain atomic head/tail with
// acquire/release fences, matching spec.md §4.2's "separate non-atomic
// head/tail with release/acquire fences" description for the single
// producer/single consumer case.
type Mode int

const (
	SPSC Mode = iota
	MPMC
)

// Queue is a fixed-capacity ring of *sample.Sample, rounded up to the
// next power of two. Push/Pop return the count actually transferred;
// zero means full/empty (spec.md §8 boundary behavior).
type Queue struct {
	mode Mode

	// MPMC state
	head uint64
	_    [cacheLinePad - 8]byte
	tail uint64
	_    [cacheLinePad - 8]byte
	mask uint64
	cells []cell

	// SPSC state (separate fields to avoid false sharing with MPMC path)
	spscHead atomic.Uint64
	spscTail atomic.Uint64
	spscBuf  []*sample.Sample
}

// New creates a Queue of at least capacity slots (rounded up to a power
// of two) operating in the given Mode.
func New(capacity int, mode Mode) *Queue {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	q := &Queue{mode: mode, mask: uint64(size - 1)}
	if mode == MPMC {
		q.cells = make([]cell, size)
		for i := range q.cells {
			q.cells[i].sequence.Store(uint64(i))
		}
	} else {
		q.spscBuf = make([]*sample.Sample, size)
	}
	return q
}

// Cap returns the queue's fixed capacity (a power of two).
func (q *Queue) Cap() int {
	if q.mode == MPMC {
		return len(q.cells)
	}
	return len(q.spscBuf)
}

// Push enqueues one item; returns false if the queue is full.
func (q *Queue) Push(item *sample.Sample) bool {
	if q.mode == SPSC {
		return q.pushSPSC(item)
	}
	return q.pushMPMC(item)
}

// Pop dequeues one item; ok is false if the queue is empty.
func (q *Queue) Pop() (item *sample.Sample, ok bool) {
	if q.mode == SPSC {
		return q.popSPSC()
	}
	return q.popMPMC()
}

// PushMany enqueues items in order until the queue is full, returning
// the count actually transferred.
func (q *Queue) PushMany(items []*sample.Sample) int {
	n := 0
	for _, it := range items {
		if !q.Push(it) {
			break
		}
		n++
	}
	return n
}

// PopMany dequeues up to len(out) items, returning the count actually
// transferred.
func (q *Queue) PopMany(out []*sample.Sample) int {
	n := 0
	for n < len(out) {
		it, ok := q.Pop()
		if !ok {
			break
		}
		out[n] = it
		n++
	}
	return n
}

// Len returns a point-in-time estimate of the number of queued items.
func (q *Queue) Len() int {
	if q.mode == SPSC {
		t := q.spscTail.Load()
		h := q.spscHead.Load()
		return int(t - h)
	}
	t := atomic.LoadUint64(&q.tail)
	h := atomic.LoadUint64(&q.head)
	return int(t - h)
}

func (q *Queue) pushMPMC(item *sample.Sample) bool {
	for {
		tail := atomic.LoadUint64(&q.tail)
		idx := tail & q.mask
		c := &q.cells[idx]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(tail)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				c.data = item
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false // full
		default:
			// another producer advanced tail; retry
		}
	}
}

func (q *Queue) popMPMC() (*sample.Sample, bool) {
	for {
		head := atomic.LoadUint64(&q.head)
		idx := head & q.mask
		c := &q.cells[idx]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(head+1)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
				item := c.data
				c.data = nil
				c.sequence.Store(head + q.mask + 1)
				return item, true
			}
		case dif < 0:
			return nil, false // empty
		default:
			// another consumer advanced head; retry
		}
	}
}

func (q *Queue) pushSPSC(item *sample.Sample) bool {
	tail := q.spscTail.Load()
	head := q.spscHead.Load()
	if tail-head >= uint64(len(q.spscBuf)) {
		return false // full
	}
	q.spscBuf[tail&q.mask] = item
	q.spscTail.Store(tail + 1) // release: publishes the slot write above
	return true
}

func (q *Queue) popSPSC() (*sample.Sample, bool) {
	head := q.spscHead.Load()
	tail := q.spscTail.Load() // acquire: observes the producer's publish
	if head == tail {
		return nil, false // empty
	}
	item := q.spscBuf[head&q.mask]
	q.spscBuf[head&q.mask] = nil
	q.spscHead.Store(head + 1)
	return item, true
}
