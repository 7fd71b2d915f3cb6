// Package scheduler implements a cooperative user-space fiber runtime:
// many lightweight tasks multiplexed onto a small pool of
// caller-supplied worker goroutines through explicit, non-preemptive
// yielding.
//
// The runtime itself never creates a worker: callers supply one or
// more goroutines that repeatedly invoke Poll in a loop. This package
// does not do I/O integration, timers, task graphs, or preemption.
package scheduler

// Scheduler is an explicit, independently-instantiable fiber runtime:
// one ready queue plus whatever config it was built with. Nothing here
// is a package-level variable, so more than one Scheduler can coexist
// in a process without hidden coupling, and tests can create a fresh
// one per case.
type Scheduler struct {
	cfg   Config
	ready readyQueue
	trace *traceLog
}

// New constructs a Scheduler with the given configuration.
func New(cfg Config) *Scheduler {
	cfg = cfg.normalized()
	return &Scheduler{
		cfg:   cfg,
		trace: newTraceLog(cfg.TraceCapacity),
	}
}

// TaskDecl is a task descriptor: the function to run and the single
// opaque parameter to pass it.
type TaskDecl struct {
	Fn    TaskFunc
	Param any
}

// Submit constructs one fiber per decl, links them into a single
// segment in submission order, and appends that segment to the ready
// queue in one O(1) splice — so the whole batch is dispatched as one
// contiguous FIFO run, never interleaved with another submission. It
// returns immediately and performs no context switch.
func (sched *Scheduler) Submit(decls []TaskDecl) {
	sched.submit(decls, nil)
}

// SubmitWithBarrier is Submit, plus a Barrier initialized to len(decls)
// that each submitted fiber decrements on termination. Waiting on the
// returned barrier is the usual way a caller (or a parent fiber, for
// nested submission) learns that every task in the batch has finished.
func (sched *Scheduler) SubmitWithBarrier(decls []TaskDecl) *Barrier {
	barrier := sched.NewBarrier(len(decls))
	sched.submit(decls, barrier)
	return barrier
}

func (sched *Scheduler) submit(decls []TaskDecl, done *Barrier) {
	if len(decls) == 0 {
		return
	}

	fibers := make([]*Fiber, len(decls))
	for i, d := range decls {
		fibers[i] = newFiber(d.Fn, d.Param, done, sched.cfg.StackSize)
	}
	for i := 0; i < len(fibers)-1; i++ {
		fibers[i].next = fibers[i+1]
	}

	head, tail := fibers[0], fibers[len(fibers)-1]
	for f := head; ; f = f.next {
		f.markQueued(listReady)
		if f == tail {
			break
		}
	}

	sched.trace.record(Event{Kind: EventSubmit, N: len(decls)})
	sched.ready.appendSegment(head, tail)
}

// Poll is the worker entry point: equivalent to one Acquire step.
// Workers call it in a loop; it pops the next runnable fiber (if any),
// drives it until it parks or finishes, and returns. It reports
// whether it dispatched anything, so a caller whose queue came up
// empty can decide whether to spin, back off, or park — that policy is
// the caller's, not the scheduler's.
func (sched *Scheduler) Poll() bool {
	f := sched.ready.popFront()
	if f == nil {
		return false
	}
	sched.dispatch(f)
	return true
}

func (sched *Scheduler) dispatch(f *Fiber) {
	switch f.status {
	case StatusNew:
		f.status = StatusActive
		sched.trace.record(Event{Kind: EventDispatchNew, FiberID: f.id})
		f.ctx.Start(func() { sched.runFiber(f) })

	case StatusBlocked:
		f.status = StatusActive
		sched.trace.record(Event{Kind: EventDispatchResume, FiberID: f.id})
		f.ctx.Restore()

	default:
		panic("scheduler: ready queue held a fiber in state " + f.status.String())
	}

	// Either f has parked — in which case the publish callback of the
	// Yield/Wait call that suspended it splices it onto the ready queue
	// or a primitive's waiter list on f's own goroutine, so there is
	// nothing further to do here
	// — or f is Done, in which case it is simply dropped; Go's
	// collector reclaims it once nothing references it.
}

// runFiber is the fiber bootstrap trampoline: it runs once per fiber,
// on that fiber's dedicated goroutine, the first time the fiber is
// dispatched. On return from the task function it signals any
// completion barrier and marks itself Done before letting the
// goroutine exit.
func (sched *Scheduler) runFiber(f *Fiber) {
	f.task(f, f.param)
	if f.done != nil {
		f.done.Signal()
	}
	f.status = StatusDone
	sched.trace.record(Event{Kind: EventReturn, FiberID: f.id})
}

// Yield is the voluntary cooperative yield a task calls from within
// its own body. self is re-admitted to the ready queue's tail only
// once it has actually parked, so a fiber that yields while still
// runnable is always eventually redispatched, and no other worker can
// ever pop self from the ready queue and dispatch it before this
// goroutine has truly suspended.
func (sched *Scheduler) Yield(self *Fiber) {
	self.status = StatusBlocked
	self.next = nil

	self.ctx.SaveAndYield(func() {
		self.markQueued(listReady)
		sched.ready.appendSegment(self, self)
	})
	self.status = StatusActive
}

// TraceSnapshot returns a copy of the most recent scheduling events, if
// tracing was enabled via Config.TraceCapacity. It returns nil
// otherwise.
func (sched *Scheduler) TraceSnapshot() []Event {
	return sched.trace.Snapshot()
}
