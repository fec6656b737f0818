// File: pkg/supernode/supernode_test.go
// Package supernode
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package supernode

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/config"
	"github.com/villasnode/node/internal/metrics"
	"github.com/villasnode/node/internal/registry"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// feedNode is a single-channel source double: Read drains canned
// batches, sleeping briefly when empty instead of busy-spinning
// (mirrors pkg/path's own test double for the same reason).
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

func (n *feedNode) UUID() string                            { return "feed" }
func (n *feedNode) Name() string                            { return "feed" }
func (n *feedNode) State() api.State                        { return api.StateStarted }
func (n *feedNode) Parse(json.RawMessage, string) error     { return nil }
func (n *feedNode) Check() error                            { return nil }
func (n *feedNode) Prepare() error                           { return nil }
func (n *feedNode) Start(context.Context) error             { return nil }
func (n *feedNode) Stop() error                              { return nil }
func (n *feedNode) Pause() error                              { return nil }
func (n *feedNode) Resume() error                             { return nil }
func (n *feedNode) Restart() error                            { return nil }
func (n *feedNode) Reverse() error                            { return nil }
func (n *feedNode) Write([]*sample.Sample, int) (int, error) { return 0, nil }
func (n *feedNode) PollFDs() []api.WakeSource                { return nil }
func (n *feedNode) NetemFDs() []api.WakeSource               { return nil }
func (n *feedNode) GetMemoryType() api.MemoryType            { return nil }
func (n *feedNode) InputSignals() *signal.List               { return n.out }
func (n *feedNode) OutputSignals() *signal.List              { return n.out }

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

func (n *sinkNode) UUID() string                            { return "sink" }
func (n *sinkNode) Name() string                            { return "sink" }
func (n *sinkNode) State() api.State                        { return api.StateStarted }
func (n *sinkNode) Parse(json.RawMessage, string) error     { return nil }
func (n *sinkNode) Check() error                            { return nil }
func (n *sinkNode) Prepare() error                           { return nil }
func (n *sinkNode) Start(context.Context) error             { return nil }
func (n *sinkNode) Stop() error                              { return nil }
func (n *sinkNode) Pause() error                              { return nil }
func (n *sinkNode) Resume() error                             { return nil }
func (n *sinkNode) Restart() error                            { return nil }
func (n *sinkNode) Reverse() error                            { return nil }
func (n *sinkNode) Read([]*sample.Sample, int) (int, error)  { return 0, nil }
func (n *sinkNode) PollFDs() []api.WakeSource                { return nil }
func (n *sinkNode) NetemFDs() []api.WakeSource               { return nil }
func (n *sinkNode) GetMemoryType() api.MemoryType            { return nil }
func (n *sinkNode) InputSignals() *signal.List               { return nil }
func (n *sinkNode) OutputSignals() *signal.List              { return nil }

// singleFactory returns the same pre-built Node instance every time,
// so a test can keep a typed handle to push/inspect data after
// SuperNode.Parse constructs it from configuration.
type singleFactory struct {
	typ   string
	flags api.FactoryFlags
	n     api.Node
}

func (f singleFactory) Type() string            { return f.typ }
func (f singleFactory) Flags() api.FactoryFlags { return f.flags }
func (f singleFactory) New() api.Node           { return f.n }

func newTestSuperNode(t *testing.T, cfg *config.Config, nodes map[string]api.Node) *SuperNode {
	t.Helper()
	nodeReg := registry.New[api.NodeFactory]()
	for name, n := range nodes {
		nodeReg.Register(cfg.Nodes[name].Type, singleFactory{typ: cfg.Nodes[name].Type, n: n})
	}
	hookReg := registry.New[api.HookFactory]()
	return New(cfg, nodeReg, hookReg, zerolog.Nop(), metrics.NewCollector())
}

func TestParseCheckPrepareStartStopPassthrough(t *testing.T) {
	feed := newFeedNode()
	feed.push(1.0)
	feed.push(2.0)
	sink := &sinkNode{}

	cfg := &config.Config{
		Nodes: map[string]config.NodeConfig{
			"source": {Type: "test_feed", In: config.DirectionConfig{Vectorize: 4}, Raw: json.RawMessage(`{}`)},
			"sink":   {Type: "test_sink", Out: config.DirectionConfig{Vectorize: 4}, Raw: json.RawMessage(`{}`)},
		},
		Paths: []config.PathConfig{
			{In: []string{"source.v"}, Out: []string{"sink"}, Mode: "any", QueueLen: 8, Enabled: true},
		},
	}

	sn := newTestSuperNode(t, cfg, map[string]api.Node{"source": feed, "sink": sink})

	if err := sn.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := sn.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := sn.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := sn.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := sn.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := sink.count(); got != 2 {
		t.Fatalf("sink received %d samples, want 2", got)
	}
}

func TestPrepareSharesSourceAcrossPathsViaInternalLoopback(t *testing.T) {
	feed := newFeedNode()
	sinkA := &sinkNode{}
	sinkB := &sinkNode{}

	cfg := &config.Config{
		Nodes: map[string]config.NodeConfig{
			"source": {Type: "test_feed", In: config.DirectionConfig{Vectorize: 4}, Raw: json.RawMessage(`{}`)},
			"sinkA":  {Type: "test_sink_a", Out: config.DirectionConfig{Vectorize: 4}, Raw: json.RawMessage(`{}`)},
			"sinkB":  {Type: "test_sink_b", Out: config.DirectionConfig{Vectorize: 4}, Raw: json.RawMessage(`{}`)},
		},
		Paths: []config.PathConfig{
			{In: []string{"source.v"}, Out: []string{"sinkA"}, Mode: "any", QueueLen: 8, Enabled: true},
			{In: []string{"source.v"}, Out: []string{"sinkB"}, Mode: "any", QueueLen: 8, Enabled: true},
		},
	}

	sn := newTestSuperNode(t, cfg, map[string]api.Node{"source": feed, "sinkA": sinkA, "sinkB": sinkB})

	if err := sn.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := sn.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := sn.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if len(sn.internalNodes) != 1 {
		t.Fatalf("internalNodes = %d, want 1 implicit loopback for the shared source", len(sn.internalNodes))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := sn.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sn.Stop()

	feed.push(1.0)
	feed.push(2.0)

	deadline := time.Now().Add(2 * time.Second)
	for (sinkA.count() < 2 || sinkB.count() < 2) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if got := sinkA.count(); got != 2 {
		t.Fatalf("sinkA received %d samples, want 2", got)
	}
	if got := sinkB.count(); got != 2 {
		t.Fatalf("sinkB received %d samples, want 2", got)
	}
}
