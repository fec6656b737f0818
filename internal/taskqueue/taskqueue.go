// File: internal/taskqueue/taskqueue.go
// Package taskqueue is SuperNode's bounded control-plane FIFO: deferred
// restart requests, API-triggered stat resets, and other operations
// that must run serialized on SuperNode's control thread rather than
// racing with each other or with the parse/check/prepare/start state
// machine (spec.md §5's "Node and Path state transitions are
// serialized by the SuperNode's control thread").
//
// Grounded on internal/concurrency/executor.go's eapache/queue-backed
// dispatch, narrowed from that file's N-worker pool to a single
// consumer (SuperNode.Run) and wrapped in a mutex: the teacher's
// executor.go reads and writes queue.Queue from multiple goroutines
// with no lock, which is safe there only because eapache/queue
// tolerates the race in practice for a best-effort task pool; a
// control-plane FIFO that must not drop or reorder a restart request
// needs the mutex this package adds.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package taskqueue

import (
	"context"
	"sync"

	"github.com/eapache/queue"
)

// Job is one deferred control-plane operation.
type Job func()

// Queue is a single-consumer FIFO of Jobs with a wakeup signal.
type Queue struct {
	mu   sync.Mutex
	q    *queue.Queue
	wake chan struct{}
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{q: queue.New(), wake: make(chan struct{}, 1)}
}

// Push enqueues job, waking the consumer if it is idle.
func (tq *Queue) Push(job Job) {
	tq.mu.Lock()
	tq.q.Add(job)
	tq.mu.Unlock()
	select {
	case tq.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of pending jobs.
func (tq *Queue) Len() int {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	return tq.q.Length()
}

func (tq *Queue) pop() (Job, bool) {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	if tq.q.Length() == 0 {
		return nil, false
	}
	item := tq.q.Peek()
	tq.q.Remove()
	job, ok := item.(Job)
	return job, ok
}

// Run drains and executes jobs in FIFO order until ctx is canceled.
// Intended to be the body of SuperNode's dedicated control-plane
// goroutine.
func (tq *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tq.wake:
		}
		for {
			job, ok := tq.pop()
			if !ok {
				break
			}
			job()
		}
	}
}
