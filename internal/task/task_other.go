//go:build !linux

// File: internal/task/task_other.go
// Package task
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux platforms have no timerfd equivalent exposed uniformly by
// golang.org/x/sys; this backend falls back to a time.Ticker and
// cannot distinguish "late by one tick" from "late by several", so
// Wait always reports zero missed ticks off Linux.

package task

import (
	"fmt"
	"time"
)

type tickerTask struct {
	ticker *time.Ticker
}

func newImpl(rate float64) (taskImpl, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("task: rate must be > 0, got %v", rate)
	}
	return &tickerTask{ticker: time.NewTicker(periodFor(rate))}, nil
}

func (t *tickerTask) Wait() (uint64, error) {
	<-t.ticker.C
	return 0, nil
}

func (t *tickerTask) Stop() error {
	t.ticker.Stop()
	return nil
}
