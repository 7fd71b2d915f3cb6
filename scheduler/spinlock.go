package scheduler

import (
	"runtime"
	"sync/atomic"
)

// spinFlag is the test-and-set spin lock guarding the ready queue and
// each synchronization primitive's waiter list. It is held only across
// O(1) pointer bookkeeping, so a CAS loop that calls Gosched after
// every failed attempt, to avoid starving the actual owner on a
// single-core machine,
// is preferable to a real mutex's syscall path.
type spinFlag struct {
	state atomic.Uint32
}

func (f *spinFlag) lock() {
	for !f.state.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

func (f *spinFlag) unlock() {
	f.state.Store(0)
}
