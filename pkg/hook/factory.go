// File: pkg/hook/factory.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// factory adapts a Hook constructor function into api.HookFactory, and
// Register populates a registry with every hook type this package
// implements. Grounded on facade/hioload.go's single-construction-point
// style, generalized through internal/registry's generic Registry.

package hook

import "github.com/villasnode/node/api"

type factory struct {
	typ   string
	flags api.FactoryFlags
	new   func() api.Hook
}

func (f factory) Type() string           { return f.typ }
func (f factory) Flags() api.FactoryFlags { return f.flags }
func (f factory) New() api.Hook          { return f.new() }

// ValueHookRegistry is the subset of internal/registry.Registry[api.HookFactory]
// this package needs, kept narrow to avoid an import of the generic
// registry package from every hook file.
type ValueHookRegistry interface {
	Register(name string, factory api.HookFactory)
}

// RegisterValueHooks installs every non-builtin, config-selectable
// hook type this package implements. Built-ins (fix_ts/restart/drop)
// are not registered here: the path engine inserts them automatically
// at fixed priorities rather than by name (spec.md §4.5).
func RegisterValueHooks(reg ValueHookRegistry) {
	reg.Register("scale", factory{typ: "scale", new: func() api.Hook { return NewScale() }})
	reg.Register("cast", factory{typ: "cast", new: func() api.Hook { return NewCast() }})
	reg.Register("round", factory{typ: "round", new: func() api.Hook { return NewRound() }})
	reg.Register("ma", factory{typ: "ma", new: func() api.Hook { return NewMovingAverage() }})
	reg.Register("limit_rate", factory{typ: "limit_rate", new: func() api.Hook { return NewLimitRate() }})
	reg.Register("shift_ts", factory{typ: "shift_ts", new: func() api.Hook { return NewShiftTs() }})
	reg.Register("shift_seq", factory{typ: "shift_seq", new: func() api.Hook { return NewShiftSeq() }})
	reg.Register("ebm", factory{typ: "ebm", new: func() api.Hook { return NewEBM() }})
	reg.Register("lua", factory{typ: "lua", new: func() api.Hook { return NewLua() }})
}
