// File: pkg/node/factory.go
// Package node
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package node

import "github.com/villasnode/node/api"

const internalLoopbackQueueCapacity = 1024

type loopbackFactory struct{}

func (loopbackFactory) Type() string           { return "internal_loopback" }
func (loopbackFactory) Flags() api.FactoryFlags { return api.FlagInternal }
func (loopbackFactory) New() api.Node          { return NewInternalLoopback(internalLoopbackQueueCapacity) }

// NodeRegistry is the subset of internal/registry.Registry[api.NodeFactory]
// this package needs.
type NodeRegistry interface {
	Register(name string, factory api.NodeFactory)
}

// RegisterBuiltins installs InternalLoopback under its reserved type
// name. It is never user-instantiable directly (spec.md §4.3 creates
// it implicitly); registering it keeps /capabilities introspection and
// pkg/path's construction path uniform with every other node type.
func RegisterBuiltins(reg NodeRegistry) {
	reg.Register("internal_loopback", loopbackFactory{})
}
