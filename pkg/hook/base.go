// File: pkg/hook/base.go
// Package hook implements the Hook interface (api.Hook) and the
// built-in/value-transform hook chain of spec.md §4.5.
//
// Grounded on adapters/handler_adapter.go's middleware-chain style
// (ordered wrappers around a base operation) generalized from a linear
// func-chain to a priority-ordered slice, and on
// internal/normalize/normalizer.go's "validate, fallback, log" idiom
// for Check/Parse.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package hook

import (
	"encoding/json"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/signal"
)

// Base supplies the bookkeeping every Hook shares: priority, enabled
// flag, builtin tag, and no-op defaults for the lifecycle methods most
// hooks don't need to override.
type Base struct {
	priority int
	enabled  bool
	builtin  bool
}

// newBase constructs a Base with enabled defaulting to true, as
// spec.md's hooks are active unless explicitly disabled in config.
func newBase(priority int, builtin bool) Base {
	return Base{priority: priority, enabled: true, builtin: builtin}
}

func (b *Base) Priority() int    { return b.priority }
func (b *Base) Enabled() bool    { return b.enabled }
func (b *Base) IsBuiltin() bool  { return b.builtin }
func (b *Base) SetEnabled(v bool) { b.enabled = v }

func (b *Base) Start() error    { return nil }
func (b *Base) Stop() error     { return nil }
func (b *Base) Periodic() error { return nil }
func (b *Base) Restart() error  { return nil }
func (b *Base) Check() error    { return nil }

// passthroughPrepare returns input unchanged, the common case for
// hooks that observe or annotate a Sample without adding/removing
// signals.
func passthroughPrepare(input *signal.List) (*signal.List, error) {
	return input, nil
}

// decodeConfig is a small json.Unmarshal wrapper producing an
// api.Error with KindConfig on failure, matching spec.md §7's taxonomy.
func decodeConfig(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return api.ConfigError("", "hook: invalid config: %v", err)
	}
	return nil
}

// builtin priorities, fixed by spec.md §4.5.
const (
	PriorityFixTs  = 1
	PriorityRestart = 2
	PriorityDrop   = 3
)

// PriorityDefault is the priority a configured value-transforming hook
// (scale/cast/round/ma/limit_rate/shift_ts/shift_seq/ebm/lua) gets
// unless its config overrides it: high enough to sort after every
// built-in, matching spec.md §4.5's "value-transforming hooks run after
// built-ins" and VILLASnode's own default hook priority.
const PriorityDefault = 99
