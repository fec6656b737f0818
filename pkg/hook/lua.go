// File: pkg/hook/lua.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lua is registered so config referencing it fails with a clear,
// structured error rather than "unknown hook type" — embedded
// scripting is an explicit spec Non-goal (general transformation DSL).

package hook

import (
	"encoding/json"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// Lua is a named-but-unimplemented hook slot.
type Lua struct {
	Base
}

func NewLua() *Lua {
	return &Lua{Base: newBase(PriorityDefault, false)}
}

func (h *Lua) Parse(raw json.RawMessage) error { return nil }

func (h *Lua) Prepare(input *signal.List) (*signal.List, error) {
	return nil, api.RuntimeError(true, "hook: lua scripting is not implemented in this build")
}

func (h *Lua) Process(s *sample.Sample) error { return nil }
