package scheduler

// Barrier is a one-shot down-counting primitive: a counter initialized
// to the number of dependents, and a FIFO of fibers parked on Wait.
// Once the counter reaches zero every current waiter is released in a
// single batch and the barrier is terminal: later Wait calls return
// immediately and later Signal calls are a documented no-op, a
// supported idiom rather than a bug.
type Barrier struct {
	ready *readyQueue

	lock    spinFlag
	counter int
	head    *Fiber
	tail    *Fiber
}

// NewBarrier allocates a barrier bound to sched's ready queue with the
// given initial count, which must be positive.
func (sched *Scheduler) NewBarrier(count int) *Barrier {
	if count <= 0 {
		panic("scheduler: barrier count must be positive")
	}
	return &Barrier{ready: &sched.ready, counter: count}
}

// Wait returns immediately if the counter has already reached zero.
// Otherwise self is marked Blocked and parked; only once it has
// actually parked is it spliced onto the waiter FIFO and the lock
// released, so a concurrent Signal can never hand self to a second
// worker before this one has truly suspended. A later counter-
// reaching-zero Signal releases the whole waiter batch at once.
func (b *Barrier) Wait(self *Fiber) {
	b.lock.lock()
	if b.counter == 0 {
		b.lock.unlock()
		return
	}

	self.status = StatusBlocked
	self.next = nil

	self.ctx.SaveAndYield(func() {
		self.markQueued(listWaiter)
		if b.tail == nil {
			b.head, b.tail = self, self
		} else {
			b.tail.next = self
			b.tail = self
		}
		b.lock.unlock()
	})
	self.status = StatusActive
}

// Signal decrements the counter. If that reaches zero, the entire
// waiter FIFO is detached as one segment and appended to the ready
// queue in a single splice, so every current waiter resumes, and none
// of them can observe a state where a later submission's fibers have
// been dispatched first. Once the counter is at zero, further calls
// are a no-op.
func (b *Barrier) Signal() {
	b.lock.lock()
	if b.counter == 0 {
		b.lock.unlock()
		return
	}

	b.counter--
	if b.counter != 0 {
		b.lock.unlock()
		return
	}

	head, tail := b.head, b.tail
	b.head, b.tail = nil, nil
	b.lock.unlock()

	if head == nil {
		return
	}
	for f := head; f != nil; f = f.next {
		f.markDequeued()
		f.markQueued(listReady)
	}
	b.ready.appendSegment(head, tail)
}
