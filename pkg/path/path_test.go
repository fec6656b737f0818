// File: pkg/path/path_test.go
// Package path
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package path

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/queue"
	"github.com/villasnode/node/pkg/hook"
	"github.com/villasnode/node/pkg/mapping"
	"github.com/villasnode/node/pkg/pool"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// feedNode is an api.Node double whose Read pops canned batches off a
// queue; Write is a no-op recorder. An empty queue returns (0, nil)
// after a 2ms sleep rather than blocking until data arrives.
type feedNode struct {
	mu      sync.Mutex
	batches [][]*sample.Sample
	out     *signal.List
}

func newFeedNode() *feedNode {
	l := signal.NewList()
	l.Add(signal.Descriptor{Name: "v", Type: signal.Float})
	return &feedNode{out: l}
}

func (n *feedNode) push(vals ...float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	batch := make([]*sample.Sample, len(vals))
	for i, v := range vals {
		s := sample.NewFree(1)
		s.Data[0] = signal.FromFloat(v)
		s.Length = 1
		s.TsOrigin = sample.Now()
		s.Flags = s.Flags.Set(sample.HasData)
		batch[i] = s
	}
	n.batches = append(n.batches, batch)
}

// Read mimics a blocking socket read: it sleeps briefly when no batch
// is queued instead of busy-spinning, matching spec.md §4.8's
// event-driven mode assumption that Read blocks inside the node.
func (n *feedNode) Read(out []*sample.Sample, cnt int) (int, error) {
	n.mu.Lock()
	if len(n.batches) == 0 {
		n.mu.Unlock()
		time.Sleep(2 * time.Millisecond)
		return 0, nil
	}
	b := n.batches[0]
	n.batches = n.batches[1:]
	k := copy(out[:cnt], b)
	n.mu.Unlock()
	return k, nil
}

func (n *feedNode) UUID() string                             { return "feed" }
func (n *feedNode) Name() string                             { return "feed" }
func (n *feedNode) State() api.State                         { return api.StateStarted }
func (n *feedNode) Parse(json.RawMessage, string) error      { return nil }
func (n *feedNode) Check() error                             { return nil }
func (n *feedNode) Prepare() error                            { return nil }
func (n *feedNode) Start(context.Context) error              { return nil }
func (n *feedNode) Stop() error                              { return nil }
func (n *feedNode) Pause() error                              { return nil }
func (n *feedNode) Resume() error                             { return nil }
func (n *feedNode) Restart() error                            { return nil }
func (n *feedNode) Reverse() error                            { return nil }
func (n *feedNode) Write([]*sample.Sample, int) (int, error)  { return 0, nil }
func (n *feedNode) PollFDs() []api.WakeSource                 { return nil }
func (n *feedNode) NetemFDs() []api.WakeSource                { return nil }
func (n *feedNode) GetMemoryType() api.MemoryType             { return nil }
func (n *feedNode) InputSignals() *signal.List                { return n.out }
func (n *feedNode) OutputSignals() *signal.List                { return n.out }

// sinkNode records every batch handed to Write.
type sinkNode struct {
	mu      sync.Mutex
	written []*sample.Sample
}

func (n *sinkNode) Write(in []*sample.Sample, cnt int) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := 0; i < cnt; i++ {
		in[i].Incref()
		n.written = append(n.written, in[i])
	}
	return cnt, nil
}

func (n *sinkNode) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.written)
}

func (n *sinkNode) UUID() string                             { return "sink" }
func (n *sinkNode) Name() string                             { return "sink" }
func (n *sinkNode) State() api.State                         { return api.StateStarted }
func (n *sinkNode) Parse(json.RawMessage, string) error      { return nil }
func (n *sinkNode) Check() error                             { return nil }
func (n *sinkNode) Prepare() error                            { return nil }
func (n *sinkNode) Start(context.Context) error              { return nil }
func (n *sinkNode) Stop() error                              { return nil }
func (n *sinkNode) Pause() error                              { return nil }
func (n *sinkNode) Resume() error                             { return nil }
func (n *sinkNode) Restart() error                            { return nil }
func (n *sinkNode) Reverse() error                            { return nil }
func (n *sinkNode) Read([]*sample.Sample, int) (int, error)   { return 0, nil }
func (n *sinkNode) PollFDs() []api.WakeSource                 { return nil }
func (n *sinkNode) NetemFDs() []api.WakeSource                { return nil }
func (n *sinkNode) GetMemoryType() api.MemoryType             { return nil }
func (n *sinkNode) InputSignals() *signal.List                { return nil }
func (n *sinkNode) OutputSignals() *signal.List               { return nil }

func newTestPool(t *testing.T, count, blocksz int) *pool.Pool {
	t.Helper()
	p, err := pool.Init(count, blocksz, nil)
	if err != nil {
		t.Fatalf("pool.Init: %v", err)
	}
	return p
}

func noBuiltinsChain() *hook.Chain {
	return hook.NewChain(nil)
}

func TestEventDrivenSingleSourceEmitsEachSample(t *testing.T) {
	feed := newFeedNode()
	feed.push(1.0)
	feed.push(2.0)

	m := mapping.NewList()
	if err := m.AddExpr("feed.v"); err != nil {
		t.Fatalf("AddExpr: %v", err)
	}
	nodes := nodeLookup{"feed": feed}
	if _, err := m.Prepare(nodes); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	srcPool := newTestPool(t, 4, 256)
	src := NewMasterSource(feed, m, srcPool, 4, noBuiltinsChain(), nil)

	sink := &sinkNode{}
	dst := NewDestination(sink, noBuiltinsChain(), 8, 4, queue.DropOldest)

	pathPool := newTestPool(t, 8, 256)
	p := New("path1", ModeAny, false, 0, pathPool, noBuiltinsChain())
	p.AddSource(src, true)
	p.AddDestination(dst)
	if err := p.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	p.Stop()

	if got := sink.count(); got != 2 {
		t.Fatalf("sink received %d samples, want 2", got)
	}
}

type nodeLookup map[string]api.Node

func (m nodeLookup) Lookup(name string) (api.Node, bool) { n, ok := m[name]; return n, ok }
