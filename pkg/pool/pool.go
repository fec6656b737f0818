// File: pkg/pool/pool.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool is the fixed-size block allocator of spec.md §4.1: a
// preallocated contiguous region, divided into cache-line-aligned
// blocks of uniform size, whose free list is an MPMC lock-free queue
// seeded with block pointers so Get/Put are wait-free in the
// uncontended path.

package pool

import (
	"unsafe"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/queue"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

const cacheLineSize = 64

// sampleHeaderSize approximates the bookkeeping bytes spec.md's
// blocksz carves out of each block before the Data[] array; Go's
// runtime-managed Sample struct makes this nominal rather than a real
// byte offset, but it keeps Capacity computation (and therefore the
// region accounting exercised by MemoryType) faithful to the spec.
const sampleHeaderSize = 64

// alignUpBlock rounds requested up to the next cache-line multiple,
// per spec.md's pool_init: "blocksz = align_up(requested, cacheline)".
func alignUpBlock(requested int) int {
	return alignUp(requested, cacheLineSize)
}

// Pool is a fixed-size block allocator backing Samples, parameterized
// by a MemoryType. Its lifetime encloses every Sample it issues.
type Pool struct {
	count   int
	blocksz int
	memType api.MemoryType
	region  []byte
	free    *queue.Queue

	capacity int // Data entries per Sample, derived from blocksz
}

// Init allocates count blocks of at least requested bytes (rounded up
// to a cache-line multiple) from memType, seeds the free list with
// count freshly constructed Samples, and records the region for
// Destroy. Mirrors spec.md's pool_init(pool, count, blocksz, mem_type).
func Init(count, requested int, memType api.MemoryType) (*Pool, error) {
	if memType == nil {
		memType = HeapMemory{}
	}
	blocksz := alignUpBlock(requested)
	region, err := memType.Alloc(count*blocksz, cacheLineSize)
	if err != nil {
		return nil, api.MemoryAllocationError(err, "pool: allocate %d blocks of %d bytes via %s", count, blocksz, memType.Name())
	}

	dataSize := int(unsafe.Sizeof(signal.Data{}))
	capacity := (blocksz - sampleHeaderSize) / dataSize
	if capacity < 1 {
		capacity = 1
	}

	p := &Pool{
		count:    count,
		blocksz:  blocksz,
		memType:  memType,
		region:   region,
		capacity: capacity,
		free:     queue.New(count, queue.MPMC),
	}

	for i := 0; i < count; i++ {
		s := sample.NewFree(capacity)
		sample.Attach(s, p)
		s.Decref() // parks it back at refcount 0... see note below
	}
	return p, nil
}

// NOTE: sample.Attach sets refcnt to 1 (mirroring pool_get's contract
// for a freshly issued Sample), but at seed time every block belongs to
// the free list, not to a caller. Decref immediately after Attach walks
// the refcount 1->0 transition, which calls Pool.Put and pushes the
// block onto the free queue exactly once -- the same invariant a freshly
// Get'd-then-Put'd Sample would leave behind.

// BlockSize returns the cache-line-aligned block size.
func (p *Pool) BlockSize() int { return p.blocksz }

// Capacity returns the number of signal.Data entries each Sample from
// this Pool can hold.
func (p *Pool) Capacity() int { return p.capacity }

// Count returns the total number of blocks this Pool was initialized with.
func (p *Pool) Count() int { return p.count }

// Available returns a point-in-time count of free blocks.
func (p *Pool) Available() int { return p.free.Len() }

// Get pops one Sample from the free list, attached and refcount 1. It
// returns nil if the pool is exhausted (spec.md §8 boundary behavior).
func (p *Pool) Get() *sample.Sample {
	s, ok := p.free.Pop()
	if !ok {
		return nil
	}
	sample.Attach(s, p)
	s.Reset()
	return s
}

// GetMany pops up to n Samples, returning the count actually obtained
// (spec.md's sample_alloc_many).
func (p *Pool) GetMany(out []*sample.Sample, n int) int {
	got := 0
	for got < n {
		s := p.Get()
		if s == nil {
			break
		}
		out[got] = s
		got++
	}
	return got
}

// Put returns s to the free list. Implements sample.Releaser; called
// automatically by Sample.Decref when refcnt reaches zero — callers
// never invoke this directly.
func (p *Pool) Put(s *sample.Sample) {
	s.Reset()
	p.free.Push(s)
}

// Destroy returns the whole backing region to its MemoryType. After
// Destroy, no Sample this Pool issued is reachable (spec.md §8).
func (p *Pool) Destroy() error {
	return p.memType.Free(p.region)
}
