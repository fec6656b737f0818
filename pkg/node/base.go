// File: pkg/node/base.go
// Package node implements the Node state machine shared bookkeeping
// (api.Node, spec.md §4.3) and the one in-scope built-in node type,
// InternalLoopback.
//
// Grounded on internal/session/session.go's id/state/cancellation
// shape (retargeted from a per-connection session to a per-node
// lifecycle) and on adapters/poller_adapter.go's started-flag-guarded
// lazy-start pattern for Prepare/Start.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package node

import (
	"sync"

	"github.com/google/uuid"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/signal"
)

// Base supplies the identity/state bookkeeping every Node
// implementation shares: UUID, Name, and the parse->check->prepare->
// start state machine's current State, guarded by a RWMutex since
// State() is read from the path engine's hot path while Start/Stop
// write it from the control plane.
type Base struct {
	mu   sync.RWMutex
	uuid string
	name string
	state api.State

	inputSignals  *signal.List
	outputSignals *signal.List
}

// InitBase assigns a fresh random UUID and sets state to
// StateInitialized. Called by concrete Node constructors.
func InitBase(name string) Base {
	return Base{uuid: uuid.NewString(), name: name, state: api.StateInitialized}
}

func (b *Base) UUID() string { return b.uuid }
func (b *Base) Name() string { return b.name }

func (b *Base) State() api.State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Base) setState(s api.State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// SetState is exported for use by concrete Node implementations
// outside this package's internal methods (pkg/node's own loopback.go
// and any out-of-package node plugin built on Base).
func (b *Base) SetState(s api.State) { b.setState(s) }

func (b *Base) InputSignals() *signal.List  { return b.inputSignals }
func (b *Base) OutputSignals() *signal.List { return b.outputSignals }

// SetSignals is called by a concrete Node's Prepare once it has built
// its SignalLists.
func (b *Base) SetSignals(in, out *signal.List) {
	b.inputSignals, b.outputSignals = in, out
}

// Default no-op lifecycle methods; concrete types override what they need.
func (b *Base) Pause() error          { b.setState(api.StatePaused); return nil }
func (b *Base) Resume() error         { b.setState(api.StateStarted); return nil }
func (b *Base) Reverse() error        { return api.RuntimeError(false, "node: reverse not supported") }
func (b *Base) PollFDs() []api.WakeSource   { return nil }
func (b *Base) NetemFDs() []api.WakeSource  { return nil }
func (b *Base) GetMemoryType() api.MemoryType { return nil }
