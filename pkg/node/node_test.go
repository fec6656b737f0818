// File: pkg/node/node_test.go
// Package node
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package node

import (
	"context"
	"testing"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/sample"
)

func TestInternalLoopbackForwardsWriteToRead(t *testing.T) {
	n := NewInternalLoopback(4)
	if err := n.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := n.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if n.State() != api.StateStarted {
		t.Fatalf("State() = %v, want StateStarted", n.State())
	}

	in := []*sample.Sample{sample.NewFree(1), sample.NewFree(1)}
	written, err := n.Write(in, 2)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if written != 2 {
		t.Fatalf("Write() = %d, want 2", written)
	}

	out := make([]*sample.Sample, 4)
	read, err := n.Read(out, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if read != 2 {
		t.Fatalf("Read() = %d, want 2", read)
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("Read did not preserve FIFO identity")
	}
}

func TestInternalLoopbackRestartDrainsQueue(t *testing.T) {
	n := NewInternalLoopback(4)
	in := []*sample.Sample{sample.NewFree(1)}
	if _, err := n.Write(in, 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := n.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	out := make([]*sample.Sample, 1)
	read, err := n.Read(out, 1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if read != 0 {
		t.Fatalf("Read() after Restart = %d, want 0", read)
	}
}

func TestInternalLoopbackPollFDsSignalOnPush(t *testing.T) {
	n := NewInternalLoopback(4)
	fds := n.PollFDs()
	if len(fds) != 1 {
		t.Fatalf("PollFDs() len = %d, want 1", len(fds))
	}
	in := []*sample.Sample{sample.NewFree(1)}
	if _, err := n.Write(in, 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	select {
	case <-fds[0]:
	default:
		t.Fatalf("expected PollFDs()[0] to be signalled after Write")
	}
}

func TestRegisterBuiltinsInstallsLoopback(t *testing.T) {
	reg := &fakeNodeRegistry{}
	RegisterBuiltins(reg)
	if len(reg.names) != 1 || reg.names[0] != "internal_loopback" {
		t.Fatalf("unexpected registrations: %v", reg.names)
	}
}

type fakeNodeRegistry struct{ names []string }

func (r *fakeNodeRegistry) Register(name string, _ api.NodeFactory) {
	r.names = append(r.names, name)
}
