//go:build linux

// File: pkg/pool/memory_linux.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux-specific MemoryTypes: anonymous mmap and mmap-with-MAP_HUGETLB
// (skipped without CAP_IPC_LOCK, per spec.md §4.1).

package pool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapMemory allocates anonymous, page-aligned memory via mmap(2).
type MmapMemory struct{}

func (MmapMemory) Name() string { return "mmap" }

func (MmapMemory) Alloc(length, align int) ([]byte, error) {
	region, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("pool: mmap %d bytes: %w", length, err)
	}
	return region, nil
}

func (MmapMemory) Free(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("pool: munmap: %w", err)
	}
	return nil
}

// HugepageMemory allocates 2 MiB huge pages via mmap(MAP_HUGETLB). Callers
// without CAP_IPC_LOCK or a configured hugepage pool should expect Alloc
// to fail; pool.Init then returns that error (it does not fall back to
// another MemoryType).
type HugepageMemory struct{}

func (HugepageMemory) Name() string { return "hugepage" }

const hugePageSize = 2 * 1024 * 1024

func (HugepageMemory) Alloc(length, align int) ([]byte, error) {
	rounded := (length + hugePageSize - 1) &^ (hugePageSize - 1)
	region, err := unix.Mmap(-1, 0, rounded,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB)
	if err != nil {
		return nil, fmt.Errorf("pool: mmap hugetlb %d bytes: %w", rounded, err)
	}
	return region[:length], nil
}

func (HugepageMemory) Free(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	rounded := (len(region) + hugePageSize - 1) &^ (hugePageSize - 1)
	full := region[:rounded:rounded]
	if err := unix.Munmap(full); err != nil {
		return fmt.Errorf("pool: munmap hugetlb: %w", err)
	}
	return nil
}

// pool.Init defaults to HeapMemory on every platform; callers that need
// mmap/hugepage explicitly request MmapMemory{}/HugepageMemory{}.
