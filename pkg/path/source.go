// File: pkg/path/source.go
// Package path implements the Path engine of spec.md §4.6-4.8:
// PathSource, PathDestination, and the Path goroutine that muxes
// sources, drives the hook chain, and fans out to destinations.
//
// Grounded on facade/hioload.go's orchestration-by-composition style
// (explicit field-per-subsystem struct, New/Start/Stop lifecycle).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package path

import (
	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/hook"
	"github.com/villasnode/node/pkg/mapping"
	"github.com/villasnode/node/pkg/node"
	"github.com/villasnode/node/pkg/pool"
	"github.com/villasnode/node/pkg/sample"
)

// Source wraps one Node from which samples flow into a Path (spec.md
// §4.6). A Master owns the read loop and fans samples out to any
// Secondary sources sharing its Node across other paths; a Secondary
// instead reads from its own dedicated InternalLoopback, fed by the
// Master.
type Source struct {
	Node      api.Node
	Mapping   *mapping.List
	Pool      *pool.Pool
	Vectorize int

	hooks       *hook.Chain
	secondaries []*node.InternalLoopback
	buf         []*sample.Sample
}

// NewMasterSource constructs a Source that owns n's read loop. hooks is
// the node-direction chain (built-ins plus any configured value hooks)
// already in Chain form. secondaries receive a copy of every batch via
// their InternalLoopback write side.
func NewMasterSource(n api.Node, m *mapping.List, p *pool.Pool, vectorize int, hooks *hook.Chain, secondaries []*node.InternalLoopback) *Source {
	return &Source{
		Node:        n,
		Mapping:     m,
		Pool:        p,
		Vectorize:   vectorize,
		hooks:       hooks,
		secondaries: secondaries,
		buf:         make([]*sample.Sample, vectorize),
	}
}

// NewSecondarySource constructs a Source reading from a dedicated
// InternalLoopback instead of the shared Node directly.
func NewSecondarySource(loop *node.InternalLoopback, m *mapping.List, p *pool.Pool, vectorize int, hooks *hook.Chain) *Source {
	return &Source{
		Node:      loop,
		Mapping:   m,
		Pool:      p,
		Vectorize: vectorize,
		hooks:     hooks,
		buf:       make([]*sample.Sample, vectorize),
	}
}

// IsMaster reports whether this Source fans out to Secondary mates.
func (s *Source) IsMaster() bool { return len(s.secondaries) > 0 }

// Read fills up to Vectorize samples from the underlying Node, runs
// the node-direction hook chain over each, fans surviving samples out
// to any Secondary mates, and returns the surviving batch (already
// incref'd for the caller's own use; the fan-out copies hold their own
// references). A hook chain error other than skip/stop-processing is
// fatal and returned to the caller, who must stop the owning Path.
func (s *Source) Read() ([]*sample.Sample, error) {
	n, err := s.Node.Read(s.buf, len(s.buf))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	out := make([]*sample.Sample, 0, n)
	for i := 0; i < n; i++ {
		sm := s.buf[i]
		keep, herr := s.hooks.Run(sm)
		if herr != nil {
			sm.Decref()
			return nil, herr
		}
		if !keep {
			sm.Decref()
			continue
		}
		if len(s.secondaries) > 0 {
			sm.IncrefMany(uint32(len(s.secondaries)))
			fanout := [1]*sample.Sample{sm}
			for _, sec := range s.secondaries {
				if _, werr := sec.Write(fanout[:], 1); werr != nil {
					sm.Decref()
				}
			}
		}
		out = append(out, sm)
	}
	return out, nil
}

// Restart resets the Source's hook chain state.
func (s *Source) Restart() error {
	return s.hooks.Restart()
}
