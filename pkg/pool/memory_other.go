//go:build !linux

// File: pkg/pool/memory_other.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux platforms have no mmap(MAP_HUGETLB) equivalent exposed
// uniformly through golang.org/x/sys; MmapMemory and HugepageMemory
// fall back to the heap so callers can request them portably and get
// correct (if not huge-page-backed) behavior everywhere.

package pool

// MmapMemory falls back to heap allocation off Linux.
type MmapMemory struct{}

func (MmapMemory) Name() string                        { return "mmap" }
func (MmapMemory) Alloc(length, align int) ([]byte, error) { return HeapMemory{}.Alloc(length, align) }
func (MmapMemory) Free(region []byte) error             { return HeapMemory{}.Free(region) }

// HugepageMemory falls back to heap allocation off Linux.
type HugepageMemory struct{}

func (HugepageMemory) Name() string                        { return "hugepage" }
func (HugepageMemory) Alloc(length, align int) ([]byte, error) { return HeapMemory{}.Alloc(length, align) }
func (HugepageMemory) Free(region []byte) error             { return HeapMemory{}.Free(region) }
