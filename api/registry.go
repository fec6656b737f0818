// File: api/registry.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Registry is the name->factory lookup contract of spec.md §4.12,
// implemented generically by internal/registry for NodeFactory,
// HookFactory, and FormatFactory.

package api

// Registry looks up named factories of type F and lists all registered
// ones. Populated at program init and read-only thereafter (spec.md §5).
type Registry[F any] interface {
	Register(name string, factory F)
	Lookup(name string) (F, bool)
	List() map[string]F
}
