// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract pooling capability set: a pluggable MemoryType
// backing a fixed-size block Pool, per spec.md §4.1.

package api

// MemoryType is the capability set {alloc(len, align), free(alloc)}
// that a Pool delegates its backing region to. Concrete implementations
// include heap (Go's allocator), anonymous mmap, mmap-with-hugetlb
// (skipped without CAP_IPC_LOCK), a managed-region adapter (an arena
// carved from an existing allocation), and an IOMMU-DMA wrapper.
type MemoryType interface {
	// Name identifies the memory type for logging/diagnostics.
	Name() string

	// Alloc returns a contiguous region of exactly len bytes aligned to
	// align (which must be a power of two), or an error.
	Alloc(length, align int) ([]byte, error)

	// Free releases a region previously returned by Alloc. Implementations
	// must tolerate being called with the exact slice Alloc returned.
	Free(region []byte) error
}
