package scheduler

import "testing"

func newTestFiber() *Fiber {
	return newFiber(func(*Fiber, any) {}, nil, nil, defaultStackSize)
}

func TestReadyQueueFIFO(t *testing.T) {
	var q readyQueue

	a, b, c := newTestFiber(), newTestFiber(), newTestFiber()
	a.next, b.next = b, c
	for _, f := range []*Fiber{a, b, c} {
		f.markQueued(listReady)
	}
	q.appendSegment(a, c)

	for _, want := range []*Fiber{a, b, c} {
		got := q.popFront()
		if got != want {
			t.Fatalf("popFront() = %p, want %p", got, want)
		}
	}
	if got := q.popFront(); got != nil {
		t.Fatalf("popFront() on empty queue = %v, want nil", got)
	}
}

func TestReadyQueueSegmentsNeverInterleave(t *testing.T) {
	var q readyQueue

	first := make([]*Fiber, 3)
	for i := range first {
		first[i] = newTestFiber()
	}
	for i := 0; i < len(first)-1; i++ {
		first[i].next = first[i+1]
	}
	for _, f := range first {
		f.markQueued(listReady)
	}
	q.appendSegment(first[0], first[len(first)-1])

	second := make([]*Fiber, 2)
	for i := range second {
		second[i] = newTestFiber()
	}
	second[0].next = second[1]
	for _, f := range second {
		f.markQueued(listReady)
	}
	q.appendSegment(second[0], second[1])

	want := append(append([]*Fiber{}, first...), second...)
	for _, f := range want {
		got := q.popFront()
		if got != f {
			t.Fatalf("popFront() = %p, want %p (segments interleaved)", got, f)
		}
	}
}

func TestFiberMarkQueuedPanicsWhenAlreadyLinked(t *testing.T) {
	f := newTestFiber()
	f.markQueued(listReady)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when marking an already-linked fiber")
		}
	}()
	f.markQueued(listWaiter)
}
