// File: pkg/path/destination.go
// Package path
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package path

import (
	"context"
	"sync"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/queue"
	"github.com/villasnode/node/pkg/hook"
	"github.com/villasnode/node/pkg/sample"
)

// Destination is one PathDestination (spec.md §4.7): an output Node,
// its own bounded queue, and a writer goroutine that drains batches of
// up to Vectorize samples, runs the out-direction hook chain, and
// calls Node.Write.
type Destination struct {
	Node      api.Node
	Vectorize int

	hooks *hook.Chain
	q     *queue.Signalled

	wg     sync.WaitGroup
	cancel context.CancelFunc
	errCh  chan error
}

// NewDestination constructs a Destination with an output queue of
// queuelen capacity (rounded up to a power of two) and the given
// overflow policy.
func NewDestination(n api.Node, hooks *hook.Chain, queuelen, vectorize int, overflow queue.OverflowPolicy) *Destination {
	return &Destination{
		Node:      n,
		Vectorize: vectorize,
		hooks:     hooks,
		q:         queue.NewSignalled(queuelen, queue.MPMC, true, overflow),
		errCh:     make(chan error, 1),
	}
}

// Enqueue increfs s and pushes it onto the destination's queue, per
// spec.md §4.7's enqueue(sample). A full queue is resolved by the
// queue's configured OverflowPolicy, never by blocking the caller.
func (d *Destination) Enqueue(s *sample.Sample) {
	s.Incref()
	if !d.q.Push(s) {
		s.Decref()
	}
}

// Dropped returns the count of samples evicted by the queue's overflow
// policy since construction.
func (d *Destination) Dropped() uint64 { return d.q.Dropped() }

// Start launches the writer goroutine.
func (d *Destination) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.wg.Add(1)
	go d.run(ctx)
}

// Stop signals the writer goroutine to exit and waits for it.
func (d *Destination) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

// Err returns the fatal error that stopped the writer goroutine, if
// any, without blocking.
func (d *Destination) Err() error {
	select {
	case err := <-d.errCh:
		return err
	default:
		return nil
	}
}

func (d *Destination) run(ctx context.Context) {
	defer d.wg.Done()
	batch := make([]*sample.Sample, d.Vectorize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.q.PollFD():
		}
		for {
			n := d.q.PopMany(batch)
			if n == 0 {
				break
			}
			if err := d.writeBatch(batch[:n]); err != nil {
				select {
				case d.errCh <- err:
				default:
				}
				return
			}
		}
	}
}

// writeBatch runs the out-direction hook chain over every sample in
// batch and writes the survivors to the destination Node. It decrefs
// every sample in batch exactly once before returning, success or
// error, so the caller never needs to reconcile reference counts
// itself.
func (d *Destination) writeBatch(batch []*sample.Sample) error {
	live := make([]*sample.Sample, 0, len(batch))
	var chainErr error
	for _, s := range batch {
		if chainErr != nil {
			s.Decref()
			continue
		}
		keep, err := d.hooks.Run(s)
		if err != nil {
			chainErr = err
			s.Decref()
			continue
		}
		if !keep {
			s.Decref()
			continue
		}
		live = append(live, s)
	}
	if len(live) > 0 {
		_, writeErr := d.Node.Write(live, len(live))
		for _, s := range live {
			s.Decref()
		}
		if chainErr == nil {
			chainErr = writeErr
		}
	}
	return chainErr
}
