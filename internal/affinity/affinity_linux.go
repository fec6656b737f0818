// File: internal/affinity/affinity_linux.go
// Package affinity
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build linux

package affinity

import (
	"runtime"

	"golang.org/x/sys/unix"
)

const available = true

func pin(cpu int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}

func unpin() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < runtime.NumCPU(); i++ {
		set.Set(i)
	}
	return unix.SchedSetaffinity(0, &set)
}
