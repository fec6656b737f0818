package queue_test

import (
	"testing"

	"github.com/villasnode/node/internal/queue"
	"github.com/villasnode/node/pkg/sample"
)

func TestCapacityBoundaryMPMC(t *testing.T) {
	const n = 4
	q := queue.New(n, queue.MPMC)
	if q.Cap() != n {
		t.Fatalf("Cap() = %d, want %d", q.Cap(), n)
	}
	for i := 0; i < n; i++ {
		if !q.Push(sample.NewFree(1)) {
			t.Fatalf("push %d should succeed into empty queue of capacity %d", i, n)
		}
	}
	if q.Push(sample.NewFree(1)) {
		t.Fatal("push N+1 should fail (queue full)")
	}
	for i := 0; i < n; i++ {
		if _, ok := q.Pop(); !ok {
			t.Fatalf("pop %d should succeed", i)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop on drained queue should fail")
	}
}

func TestCapacityBoundarySPSC(t *testing.T) {
	const n = 8
	q := queue.New(n, queue.SPSC)
	pushed := 0
	for q.Push(sample.NewFree(1)) {
		pushed++
	}
	if pushed != n {
		t.Fatalf("pushed = %d, want %d", pushed, n)
	}
	popped := 0
	for {
		if _, ok := q.Pop(); !ok {
			break
		}
		popped++
	}
	if popped != n {
		t.Fatalf("popped = %d, want %d", popped, n)
	}
}

func TestFIFOOrder(t *testing.T) {
	q := queue.New(4, queue.MPMC)
	s1, s2, s3 := sample.NewFree(1), sample.NewFree(1), sample.NewFree(1)
	s1.Sequence, s2.Sequence, s3.Sequence = 1, 2, 3
	q.Push(s1)
	q.Push(s2)
	q.Push(s3)
	for _, want := range []uint64{1, 2, 3} {
		got, ok := q.Pop()
		if !ok || got.Sequence != want {
			t.Fatalf("got sequence %v ok=%v, want %d", got, ok, want)
		}
	}
}

func TestSignalledWakeOnPushFromEmpty(t *testing.T) {
	sq := queue.NewSignalled(4, queue.MPMC, true, queue.DropOldest)
	select {
	case <-sq.PollFD():
		t.Fatal("should not be signalled before any push")
	default:
	}
	sq.Push(sample.NewFree(1))
	select {
	case <-sq.PollFD():
	default:
		t.Fatal("expected wakeup after push from empty")
	}
}

func TestSignalledDropOldestOverflow(t *testing.T) {
	sq := queue.NewSignalled(2, queue.MPMC, true, queue.DropOldest)
	a, b, c := sample.NewFree(1), sample.NewFree(1), sample.NewFree(1)
	a.Sequence, b.Sequence, c.Sequence = 1, 2, 3
	sq.Push(a)
	sq.Push(b)
	sq.Push(c) // should evict a
	if sq.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", sq.Dropped())
	}
	first, ok := sq.Pop()
	if !ok || first.Sequence != 2 {
		t.Fatalf("expected b (seq 2) first after eviction, got %+v", first)
	}
}

func TestSignalledDropNewestOverflow(t *testing.T) {
	sq := queue.NewSignalled(2, queue.MPMC, true, queue.DropNewest)
	a, b, c := sample.NewFree(1), sample.NewFree(1), sample.NewFree(1)
	sq.Push(a)
	sq.Push(b)
	if sq.Push(c) {
		t.Fatal("DropNewest should reject push when full")
	}
	if sq.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", sq.Dropped())
	}
}
