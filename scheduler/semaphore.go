package scheduler

// Semaphore is a counting synchronization primitive: an integer
// counter plus a FIFO of fibers parked on Wait. The invariant
// counter > 0 implies an empty waiter list holds at every instant no
// goroutine holds the lock.
type Semaphore struct {
	ready *readyQueue

	lock    spinFlag
	counter int
	head    *Fiber
	tail    *Fiber
}

// NewSemaphore allocates a semaphore bound to sched's ready queue, with
// the given initial counter (must be >= 0).
func (sched *Scheduler) NewSemaphore(initial int) *Semaphore {
	if initial < 0 {
		panic("scheduler: semaphore initial counter must be >= 0")
	}
	return &Semaphore{ready: &sched.ready, counter: initial}
}

// Wait decrements the counter and returns immediately if it was
// positive. Otherwise self is marked Blocked and parked; only once it
// has actually parked is it spliced onto the waiter FIFO and the lock
// released, so no Signal can hand it to a second worker before this
// one has truly suspended. It returns once a later Signal hands it
// back the counter unit directly (by dispatching it rather than
// incrementing). self must be the fiber currently executing on its own
// goroutine — i.e. the argument the scheduler handed the running task.
func (s *Semaphore) Wait(self *Fiber) {
	s.lock.lock()
	if s.counter > 0 {
		s.counter--
		s.lock.unlock()
		return
	}

	self.status = StatusBlocked
	self.next = nil

	self.ctx.SaveAndYield(func() {
		self.markQueued(listWaiter)
		if s.tail == nil {
			s.head, s.tail = self, self
		} else {
			s.tail.next = self
			s.tail = self
		}
		s.lock.unlock()
	})
	self.status = StatusActive
}

// Signal wakes the longest-waiting parked fiber, if any, by appending
// it directly to the ready queue (transferring the unit of
// availability to it without ever touching the counter). Otherwise it
// increments the counter. No signal is lost and no waiter wakes
// spuriously.
func (s *Semaphore) Signal() {
	s.lock.lock()
	if s.head == nil {
		s.counter++
		s.lock.unlock()
		return
	}

	woken := s.head
	if s.head == s.tail {
		s.head, s.tail = nil, nil
	} else {
		s.head = woken.next
	}
	woken.next = nil
	woken.markDequeued()
	s.lock.unlock()

	woken.markQueued(listReady)
	s.ready.appendSegment(woken, woken)
}
