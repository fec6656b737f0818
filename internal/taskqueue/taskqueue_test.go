// File: internal/taskqueue/taskqueue_test.go
// Package taskqueue
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package taskqueue

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRunExecutesJobsInFIFOOrder(t *testing.T) {
	tq := New()
	var mu sync.Mutex
	var order []int

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tq.Run(ctx)

	for i := 0; i < 5; i++ {
		i := i
		tq.Push(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(order)
		mu.Unlock()
		if n == 5 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("jobs did not all run within deadline, got %d/5", n)
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want 0..4 in sequence", order)
		}
	}
}

func TestLenReflectsPendingJobs(t *testing.T) {
	tq := New()
	block := make(chan struct{})
	tq.Push(func() { <-block })
	tq.Push(func() {})
	tq.Push(func() {})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tq.Run(ctx)

	time.Sleep(10 * time.Millisecond)
	if n := tq.Len(); n != 2 {
		t.Fatalf("Len() = %d, want 2 (one job blocked mid-run)", n)
	}
	close(block)
}
