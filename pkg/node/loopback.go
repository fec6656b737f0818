// File: pkg/node/loopback.go
// Package node
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// InternalLoopback is the one built-in node type spec.md §4.3 names:
// created implicitly as the secondary mate of a source shared by more
// than one path, it wraps a signalled queue and simply forwards writes
// to reads — the Master PathSource increfs and pushes into it, and the
// Secondary PathSource reads from it as if it were its own node.

package node

import (
	"context"
	"encoding/json"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/queue"
	"github.com/villasnode/node/pkg/sample"
)

// InternalLoopback forwards Write to Read via an MPMC signalled queue.
type InternalLoopback struct {
	Base
	q *queue.Signalled
}

// NewInternalLoopback constructs a loopback node of the given queue
// capacity, used internally by pkg/path when fanning a shared source
// out to more than one path.
func NewInternalLoopback(capacity int) *InternalLoopback {
	return &InternalLoopback{
		Base: InitBase("internal-loopback"),
		q:    queue.NewSignalled(capacity, queue.MPMC, true, queue.DropOldest),
	}
}

func (n *InternalLoopback) Parse(raw json.RawMessage, superUUID string) error {
	n.SetState(api.StateParsed)
	return nil
}

func (n *InternalLoopback) Check() error {
	n.SetState(api.StateChecked)
	return nil
}

func (n *InternalLoopback) Prepare() error {
	n.SetState(api.StatePrepared)
	return nil
}

func (n *InternalLoopback) Start(ctx context.Context) error {
	n.SetState(api.StateStarted)
	return nil
}

func (n *InternalLoopback) Stop() error {
	n.SetState(api.StateStopped)
	return nil
}

// Restart drains any queued samples (releasing them) so a fresh
// source generation doesn't hand stale data to the secondary reader.
func (n *InternalLoopback) Restart() error {
	for {
		s, ok := n.q.Pop()
		if !ok {
			break
		}
		s.Decref()
	}
	return nil
}

// Write pushes already-increfed samples onto the loopback queue, one
// at a time, stopping (and returning the count accepted so far) at the
// first rejection — satisfies the "consume contiguously from index 0"
// contract of api.Node.Write.
func (n *InternalLoopback) Write(in []*sample.Sample, cnt int) (int, error) {
	accepted := 0
	for i := 0; i < cnt; i++ {
		if !n.q.Push(in[i]) {
			break
		}
		accepted++
	}
	return accepted, nil
}

// Read pops up to cnt samples already produced (and timestamped) by
// whichever node originally read them; loopback never touches their
// content.
func (n *InternalLoopback) Read(out []*sample.Sample, cnt int) (int, error) {
	if cnt > len(out) {
		cnt = len(out)
	}
	got := 0
	for got < cnt {
		s, ok := n.q.Pop()
		if !ok {
			break
		}
		out[got] = s
		got++
	}
	return got, nil
}

func (n *InternalLoopback) PollFDs() []api.WakeSource {
	return []api.WakeSource{n.q.PollFD()}
}

var _ api.Node = (*InternalLoopback)(nil)
