// File: api/node.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Node is the contract every connection-type plugin (socket, shared
// memory, MQTT, RTP, FPGA DMA, IEC 61850, ...) and the one in-scope
// built-in, InternalLoopback, must satisfy (spec.md §4.3).

package api

import (
	"context"
	"encoding/json"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// WakeSource is a channel a Path engine can select on to learn that a
// Node has data ready (polled mode) or that out-of-band control
// (netem-style traffic shaping) fired. An empty slice means "always
// ready" / "not applicable".
type WakeSource = <-chan struct{}

// Node abstracts a bidirectional endpoint attached to an external
// protocol or device.
type Node interface {
	// UUID, Name, and State identify the instance and report its
	// position in the parse->check->prepare->start state machine.
	UUID() string
	Name() string
	State() State

	// Parse translates configuration into instance state. superUUID
	// identifies the owning SuperNode instance for logging/UUID scoping.
	Parse(raw json.RawMessage, superUUID string) error

	// Check validates config coherence (e.g. sample size fits blocksz).
	Check() error

	// Prepare allocates the Pool, SignalLists, and any per-instance
	// threads; must succeed or roll back every partial allocation.
	Prepare() error

	Start(ctx context.Context) error
	Stop() error
	Pause() error
	Resume() error
	Restart() error
	// Reverse swaps the in/out direction for symmetric protocols.
	Reverse() error

	// Read fills up to cnt samples from out, returning the count
	// actually produced. Must set Length, Sequence (if the protocol
	// carries one), TsOrigin (if carried), always set TsReceived before
	// return, and set Flags accordingly.
	Read(out []*sample.Sample, cnt int) (produced int, err error)

	// Write consumes contiguously from index 0 of in, returning the
	// count accepted. May block.
	Write(in []*sample.Sample, cnt int) (consumed int, err error)

	// PollFDs/NetemFDs surface descriptors selectable for readiness and
	// traffic-control respectively.
	PollFDs() []WakeSource
	NetemFDs() []WakeSource

	// GetMemoryType optionally overrides the MemoryType used to size
	// this Node's Pool (e.g. a DMA-capable node). Returns nil to accept
	// the default (heap).
	GetMemoryType() MemoryType

	// InputSignals/OutputSignals expose the SignalLists bound to this
	// Node's in/out directions, valid after Prepare.
	InputSignals() *signal.List
	OutputSignals() *signal.List
}

// NodeFactory constructs Node instances of one named type.
type NodeFactory interface {
	Type() string
	Flags() FactoryFlags
	New() Node
}
