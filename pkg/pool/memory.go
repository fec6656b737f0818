// File: pkg/pool/memory.go
// Package pool implements the fixed-size block Pool and its pluggable
// MemoryType backends, per spec.md §3 and §4.1.
//
// Grounded on core/buffer/bufferpool.go's size-classed slab design
// (generalized here from byte-slice buffers to fixed-size Sample
// blocks) and on pool/bufferpool_linux.go's stated intent to back
// buffers with mmap+hugetlb (that file falls back to heap allocation in
// the teacher; this port implements the mmap/hugetlb path for real via
// golang.org/x/sys/unix, see memory_linux.go).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package pool

import (
	"fmt"

	"github.com/villasnode/node/api"
)

// HeapMemory allocates from Go's ordinary heap. The default MemoryType
// and the only one guaranteed to work on every platform.
type HeapMemory struct{}

func (HeapMemory) Name() string { return "heap" }

func (HeapMemory) Alloc(length, align int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("pool: heap alloc: length must be > 0")
	}
	// align-1 extra bytes would be needed for manual alignment of a
	// sub-slice; Go's allocator already aligns slices to at least the
	// platform word size, which covers every blocksz this package
	// produces (always a cache-line multiple, §4.1).
	return make([]byte, length), nil
}

func (HeapMemory) Free([]byte) error { return nil } // GC-managed

// ManagedMemory adapts an existing contiguous region (carved from a
// parent allocation) into a MemoryType, handing out one arena per
// Alloc call until it is exhausted. Used when a Pool must share a
// single larger mmap/hugepage region across several sub-pools.
type ManagedMemory struct {
	region []byte
	offset int
}

// NewManagedMemory wraps region for arena-style sub-allocation.
func NewManagedMemory(region []byte) *ManagedMemory {
	return &ManagedMemory{region: region}
}

func (m *ManagedMemory) Name() string { return "managed" }

func (m *ManagedMemory) Alloc(length, align int) ([]byte, error) {
	start := alignUp(m.offset, align)
	if start+length > len(m.region) {
		return nil, fmt.Errorf("pool: managed region exhausted: need %d bytes at offset %d, have %d", length, start, len(m.region))
	}
	out := m.region[start : start+length]
	m.offset = start + length
	return out, nil
}

func (m *ManagedMemory) Free([]byte) error { return nil } // reclaimed with the parent region

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}
