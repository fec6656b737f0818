// File: pkg/hook/indices.go
// Package hook
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hook

import (
	"github.com/villasnode/node/api"
	"github.com/villasnode/node/pkg/signal"
)

// indexSelector is the shared config shape for hooks that operate over
// a configurable subset of signals, by index or by name. Embedded (via
// json struct composition) into scale/cast/round/ma configs.
type indexSelector struct {
	Signals     []int    `json:"signals,omitempty"`
	SignalNames []string `json:"signal_names,omitempty"`
}

// resolve converts names to indices against list (as bound at Prepare
// time) and returns the union of explicit indices and resolved names,
// sorted ascending with duplicates removed. An empty selector resolves
// to every index in list.
func (s indexSelector) resolve(list *signal.List) ([]int, error) {
	if len(s.Signals) == 0 && len(s.SignalNames) == 0 {
		if list == nil {
			return nil, nil
		}
		all := make([]int, list.Len())
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool)
	for _, idx := range s.Signals {
		seen[idx] = true
	}
	for _, name := range s.SignalNames {
		if list == nil {
			return nil, api.ConfigError("", "hook: signal_names requires a resolved signal list")
		}
		idx := list.IndexOf(name)
		if idx < 0 {
			return nil, api.ConfigError("", "hook: unknown signal %q", name)
		}
		seen[idx] = true
	}

	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	// simple insertion sort: selector lists are tiny (a handful of channels)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}
