//go:build linux

// File: internal/task/task_linux.go
// Package task
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package task

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

type timerfdTask struct {
	fd int
}

func newImpl(rate float64) (taskImpl, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("task: rate must be > 0, got %v", rate)
	}
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		return nil, fmt.Errorf("task: timerfd_create: %w", err)
	}
	period := periodFor(rate)
	spec := &unix.ItimerSpec{
		Value:    unix.NsecToTimespec(period.Nanoseconds()),
		Interval: unix.NsecToTimespec(period.Nanoseconds()),
	}
	if err := unix.TimerfdSettime(fd, 0, spec, nil); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("task: timerfd_settime: %w", err)
	}
	return &timerfdTask{fd: fd}, nil
}

func (t *timerfdTask) Wait() (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(t.fd, buf[:])
	if err != nil {
		return 0, fmt.Errorf("task: timerfd read: %w", err)
	}
	if n != 8 {
		return 0, fmt.Errorf("task: short timerfd read: %d bytes", n)
	}
	expirations := binary.LittleEndian.Uint64(buf[:])
	if expirations == 0 {
		return 0, nil
	}
	return expirations - 1, nil
}

func (t *timerfdTask) Stop() error {
	return unix.Close(t.fd)
}
