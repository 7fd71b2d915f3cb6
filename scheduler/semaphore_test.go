package scheduler

import "testing"

func TestNewSemaphoreRejectsNegativeInitial(t *testing.T) {
	sched := New(DefaultConfig())
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative initial counter")
		}
	}()
	sched.NewSemaphore(-1)
}

// TestSemaphoreSignalWithNoWaitersBanksCounter checks the non-blocking
// half of Signal: with nothing parked, it just increments the counter
// and leaves the waiter list empty.
func TestSemaphoreSignalWithNoWaitersBanksCounter(t *testing.T) {
	sched := New(DefaultConfig())
	sem := sched.NewSemaphore(0)

	sem.Signal()
	sem.Signal()

	if sem.counter != 2 {
		t.Fatalf("counter = %d, want 2", sem.counter)
	}
	if sem.head != nil || sem.tail != nil {
		t.Fatalf("Signal with no waiters touched the waiter list")
	}
}

func TestSemaphoreWaitConsumesBankedUnitWithoutBlocking(t *testing.T) {
	sched := New(DefaultConfig())
	sem := sched.NewSemaphore(1)

	f := newTestFiber()
	sem.Wait(f)

	if sem.counter != 0 {
		t.Fatalf("counter = %d, want 0", sem.counter)
	}
	if f.Status() != StatusNew {
		t.Fatalf("fiber status changed to %s despite a non-blocking Wait", f.Status())
	}
}
