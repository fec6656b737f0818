// File: pkg/signal/list.go
// Package signal
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Signal descriptors and the ordered, indexed SignalList that types and
// names every Sample channel produced by a given node or path.

package signal

import "fmt"

// Descriptor is the per-channel metadata for one Sample slot: name,
// unit, value type, and default/init value. Shared by reference among
// all Samples produced by a given node/path; created at node/hook
// prepare and destroyed at node teardown.
type Descriptor struct {
	Name string
	Unit string
	Type Type
	Init Data
}

// List is an ordered sequence of Descriptors with lookup by name or
// index. Indices are the stable identity of a channel within a Sample.
// A List is built once at prepare time and is immutable thereafter for
// the lifetime of every Sample that references it (spec.md §3 invariant).
type List struct {
	descs   []Descriptor
	byName  map[string]int
}

// NewList creates an empty, mutable-until-frozen SignalList.
func NewList() *List {
	return &List{byName: make(map[string]int)}
}

// Add appends a Descriptor, returning its index. Names need not be
// unique, but only the first occurrence is reachable via ByName.
func (l *List) Add(d Descriptor) int {
	idx := len(l.descs)
	l.descs = append(l.descs, d)
	if _, exists := l.byName[d.Name]; !exists && d.Name != "" {
		l.byName[d.Name] = idx
	}
	return idx
}

// Len returns the number of descriptors in the list.
func (l *List) Len() int { return len(l.descs) }

// At returns the descriptor at idx, or the zero Descriptor and false if
// out of range.
func (l *List) At(idx int) (Descriptor, bool) {
	if idx < 0 || idx >= len(l.descs) {
		return Descriptor{}, false
	}
	return l.descs[idx], true
}

// IndexOf returns the first index registered under name, or -1.
func (l *List) IndexOf(name string) int {
	if idx, ok := l.byName[name]; ok {
		return idx
	}
	return -1
}

// All returns a copy of the underlying descriptor slice.
func (l *List) All() []Descriptor {
	out := make([]Descriptor, len(l.descs))
	copy(out, l.descs)
	return out
}

// String renders a human-readable column header, e.g. for villas.human.
func (l *List) String() string {
	s := ""
	for i, d := range l.descs {
		if i > 0 {
			s += "\t"
		}
		s += fmt.Sprintf("%s[%s]", d.Name, d.Type)
	}
	return s
}
