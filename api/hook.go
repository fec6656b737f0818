// File: api/hook.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Hook is the contract every in-stream transform satisfies (spec.md
// §4.5). Process returns one of three outcomes via its error value:
// nil (ok, continue the chain), ErrSkipSample, ErrStopProcessing, or
// any other error (fatal — halts the owning Path). This keeps hot-path
// control flow as a single Go error return rather than exceptions, per
// spec.md §9's deliberate cold/hot error-handling split.

package api

import (
	"encoding/json"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// Hook is an in-stream transform bound to either a Node direction or a
// Path, ordered within its chain by ascending Priority.
type Hook interface {
	Parse(raw json.RawMessage) error
	Check() error

	// Prepare receives the input SignalList copied from this hook's
	// attachment point and returns the (possibly transformed) output
	// SignalList.
	Prepare(input *signal.List) (output *signal.List, err error)

	Start() error
	Stop() error

	// Periodic is invoked once per path engine tick in periodic mode,
	// for hooks that need wall-clock-driven behavior independent of
	// sample arrival (e.g. limit_rate's dead-time accounting).
	Periodic() error

	// Restart resets any accumulated state (sequence tracking, moving
	// averages, ...) in response to a Path restart event.
	Restart() error

	// Process transforms s in place (the caller guarantees
	// s.CanMutate()) or returns a control-flow error.
	Process(s *sample.Sample) error

	Priority() int
	Enabled() bool
	IsBuiltin() bool
}

// HookFactory constructs Hook instances of one named type.
type HookFactory interface {
	Type() string
	Flags() FactoryFlags
	New() Hook
}
