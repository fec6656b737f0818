// File: cmd/villas-node/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package main

import (
	"github.com/rs/zerolog"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/config"
	"github.com/villasnode/node/internal/metrics"
	"github.com/villasnode/node/internal/registry"
	"github.com/villasnode/node/pkg/hook"
	"github.com/villasnode/node/pkg/node"
	"github.com/villasnode/node/pkg/supernode"
)

// registerBuiltins populates the node and hook registries with every
// type this binary ships: InternalLoopback (the one in-scope built-in
// node type) and the value hook set (scale/cast/round/ma/limit_rate/
// shift_ts/shift_seq/ebm/lua). Third-party node/hook plugins would
// register into these same registries before Parse runs.
func registerBuiltins() (*registry.Registry[api.NodeFactory], *registry.Registry[api.HookFactory]) {
	nodeReg := registry.New[api.NodeFactory]()
	node.RegisterBuiltins(nodeReg)

	hookReg := registry.New[api.HookFactory]()
	hook.RegisterValueHooks(hookReg)

	return nodeReg, hookReg
}

func newSuperNode(cfg *config.Config, nodeReg *registry.Registry[api.NodeFactory], hookReg *registry.Registry[api.HookFactory], log zerolog.Logger, mcol *metrics.Collector) *supernode.SuperNode {
	return supernode.New(cfg, nodeReg, hookReg, log, mcol)
}
