package scheduler

// readyQueue is a Scheduler-wide singly-linked FIFO of runnable fibers,
// guarded by one spin flag. Ordering is strict FIFO: appendSegment
// splices a whole pre-linked run at the tail in O(1), so fibers
// submitted together are never interleaved with fibers from another
// submission.
type readyQueue struct {
	lock spinFlag
	head *Fiber
	tail *Fiber
}

// appendSegment splices [head..tail], already linked via Fiber.next,
// onto the queue's tail. Callers must have already tagged every fiber
// in the segment listReady (see Fiber.markQueued) before calling this.
func (q *readyQueue) appendSegment(head, tail *Fiber) {
	tail.next = nil
	q.lock.lock()
	if q.tail == nil {
		q.head = head
	} else {
		q.tail.next = head
	}
	q.tail = tail
	q.lock.unlock()
}

// popFront unlinks and returns the head fiber, or nil if the queue is
// empty. The returned fiber is marked as being on no list.
func (q *readyQueue) popFront() *Fiber {
	q.lock.lock()
	f := q.head
	if f != nil {
		if q.head == q.tail {
			q.head = nil
			q.tail = nil
		} else {
			q.head = f.next
		}
		f.next = nil
	}
	q.lock.unlock()
	if f != nil {
		f.markDequeued()
	}
	return f
}
