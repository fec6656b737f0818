// File: pkg/hook/chain.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Chain orders a set of Hooks by ascending priority and runs them over
// one Sample at a time, interpreting the three control-flow outcomes
// of spec.md §4.5: continue, skip-sample, stop-processing, or error.

package hook

import (
	"sort"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/sample"
)

// Chain is an ordered, priority-sorted sequence of Hooks attached to
// either one Node direction or a Path.
type Chain struct {
	hooks []api.Hook
}

// NewChain builds a Chain from hooks, sorting by ascending Priority.
// Built-ins (fix_ts, restart, drop) are expected to already be present
// in hooks when the caller assembles a node-direction or path chain;
// Chain itself does not insert them.
func NewChain(hooks []api.Hook) *Chain {
	c := &Chain{hooks: append([]api.Hook(nil), hooks...)}
	sort.SliceStable(c.hooks, func(i, j int) bool {
		return c.hooks[i].Priority() < c.hooks[j].Priority()
	})
	return c
}

// Hooks returns the chain's hooks in execution order.
func (c *Chain) Hooks() []api.Hook { return c.hooks }

// Len reports the number of hooks in the chain.
func (c *Chain) Len() int { return len(c.hooks) }

// Run executes every enabled hook over s in priority order. keep
// reports whether s should continue to its destination; it is false
// when a hook returned api.ErrSkipSample or api.ErrStopProcessing, and
// either one ends the chain for s without being returned as an error.
// Any other error is fatal and must stop the owning Path.
func (c *Chain) Run(s *sample.Sample) (keep bool, err error) {
	for _, h := range c.hooks {
		if !h.Enabled() {
			continue
		}
		if perr := h.Process(s); perr != nil {
			switch perr {
			case api.ErrSkipSample:
				return false, nil
			case api.ErrStopProcessing:
				return false, nil
			default:
				return false, perr
			}
		}
	}
	return true, nil
}

// Periodic invokes Periodic on every enabled hook, stopping at the
// first error (spec.md §4.8's periodic-mode tick).
func (c *Chain) Periodic() error {
	for _, h := range c.hooks {
		if !h.Enabled() {
			continue
		}
		if err := h.Periodic(); err != nil {
			return err
		}
	}
	return nil
}

// Restart resets every hook's accumulated state, called when the
// owning Path restarts.
func (c *Chain) Restart() error {
	for _, h := range c.hooks {
		if err := h.Restart(); err != nil {
			return err
		}
	}
	return nil
}

// BuildBuiltins returns the fix_ts/restart/drop built-in hooks at
// their fixed priorities, ready to be prepended to a node-direction
// hook chain per spec.md §4.5. restart is invoked by the Restart hook
// whenever it detects a sequence reset.
func BuildBuiltins(restart RestartFunc) []api.Hook {
	return []api.Hook{NewFixTs(), NewRestart(restart), NewDrop()}
}
