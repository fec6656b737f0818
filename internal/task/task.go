// File: internal/task/task.go
// Package task implements the periodic wakeup primitive of spec.md
// §4.10: a monotonic Task.Wait() that blocks until the next tick and
// reports how many ticks were missed since the last call (e.g. because
// the caller was blocked doing other work).
//
// Grounded on reactor/reactor_linux.go's build-tag-split platform
// implementation behind a common interface; the Linux backend uses
// timerfd (golang.org/x/sys/unix), whose read(2) returns the number of
// expirations since the last read; Wait reports that number minus one
// (the tick it woke for) as the missed-tick count.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package task

import "time"

// Task is a periodic wakeup source at a fixed rate (Hz).
type Task struct {
	impl taskImpl
}

// taskImpl is the platform-specific backend Task delegates to.
type taskImpl interface {
	Wait() (missed uint64, err error)
	Stop() error
}

// New creates a Task firing at rate Hz. rate must be > 0.
func New(rate float64) (*Task, error) {
	impl, err := newImpl(rate)
	if err != nil {
		return nil, err
	}
	return &Task{impl: impl}, nil
}

// Wait blocks until the next tick, returning the number of ticks
// missed since the previous Wait call (0 if none).
func (t *Task) Wait() (missed uint64, err error) {
	return t.impl.Wait()
}

// Stop releases the Task's underlying timer resource.
func (t *Task) Stop() error {
	return t.impl.Stop()
}

func periodFor(rate float64) time.Duration {
	return time.Duration(float64(time.Second) / rate)
}
