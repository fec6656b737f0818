// File: internal/affinity/affinity.go
// Package affinity pins a Path/Node hot-path goroutine's OS thread to a
// specific CPU, the Go analogue of spec.md §5's "parallel OS threads"
// scheduling model getting the cache-locality benefit the teacher's
// cgo-based NUMA pinning aimed for.
//
// Grounded on internal/concurrency/pin_linux.go's
// sched_setaffinity/numa_run_on_node pairing, ported from cgo's
// pthread_setaffinity_np to golang.org/x/sys/unix.SchedSetaffinity so
// this module never requires CGO_ENABLED=1 (pin_linux_nocgo.go's
// runtime.LockOSThread fallback shows the teacher already anticipated
// needing a cgo-free path; this package generalizes that path to do
// real pinning instead of a no-op).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package affinity

// Pin binds the calling goroutine's current OS thread to cpu (locking
// it there with runtime.LockOSThread) and sets its scheduler affinity
// mask to that single CPU. The caller must run Pin from the exact
// goroutine it wants pinned (e.g. as the first statement inside a
// Path's or Node's dedicated read/write loop), since Go does not let
// one goroutine set another's OS thread affinity.
func Pin(cpu int) error {
	return pin(cpu)
}

// Unpin restores the default (all-CPUs) affinity mask for the calling
// goroutine's OS thread without releasing the LockOSThread pin -- a
// Node/Path that unpins is expected to Stop shortly after, at which
// point the goroutine exits and the thread is returned to the runtime.
func Unpin() error {
	return unpin()
}

// Available reports whether CPU affinity pinning is supported on this
// platform.
func Available() bool { return available }
