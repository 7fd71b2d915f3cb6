package scheduler

import (
	"sync/atomic"

	"github.com/fiberrt/fiberrt/internal/ctxswitch"
)

// Status is a fiber's position in the lifecycle New -> Active ->
// {Blocked, Done}, with Blocked -> Active on re-dispatch and Done
// terminal.
type Status int32

const (
	StatusNew Status = iota
	StatusActive
	StatusBlocked
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusActive:
		return "active"
	case StatusBlocked:
		return "blocked"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// listTag names which single FIFO, if any, currently threads a fiber
// through its next pointer, so the "on at most one list" invariant can
// be checked with a panic instead of assumed.
type listTag int32

const (
	listNone listTag = iota
	listReady
	listWaiter
)

var fiberIDs atomic.Uint64

// TaskFunc is one fiber's body. self is the handle the task uses to
// call Yield or to wait on a Semaphore/Barrier; Go has no user-level
// thread-local storage, so unlike an implicit "currently executing
// fiber" pointer, self is passed explicitly. param is the
// single opaque argument from TaskDecl.
type TaskFunc func(self *Fiber, param any)

// Fiber is one suspended or running task: a private stack (realized as
// a dedicated goroutine, see internal/ctxswitch), a resumption context,
// a task and its argument, an optional completion signal, a status, and
// exactly one next-link used to thread it onto at most one FIFO.
type Fiber struct {
	id  uint64
	tag listTag

	next   *Fiber
	status Status
	ctx    *ctxswitch.Context

	task  TaskFunc
	param any

	// done, if non-nil, is decremented when this fiber terminates.
	done *Barrier

	// stackSize is advisory only: Go's goroutine stacks grow on
	// demand, so nothing actually allocates a buffer of this size.
	stackSize int
}

func newFiber(task TaskFunc, param any, done *Barrier, stackSize int) *Fiber {
	return &Fiber{
		id:        fiberIDs.Add(1),
		status:    StatusNew,
		ctx:       ctxswitch.New(),
		task:      task,
		param:     param,
		done:      done,
		stackSize: stackSize,
	}
}

// ID returns a value stable for the fiber's whole lifetime, useful only
// for logging/tracing; it carries no scheduling meaning.
func (f *Fiber) ID() uint64 { return f.id }

// Status reports the fiber's last-observed lifecycle state. Calling
// this from outside the fiber's own task body is racy by construction
// (status is written by whichever worker/primitive currently owns the
// fiber) and is intended for tests and tracing only.
func (f *Fiber) Status() Status { return f.status }

// markQueued records that f is now threaded onto the named list. It
// panics if f is already on a list, which would mean two FIFOs share
// the same next pointer.
func (f *Fiber) markQueued(tag listTag) {
	if f.tag != listNone {
		panic("scheduler: fiber is already linked onto a list")
	}
	f.tag = tag
}

// markDequeued records that f has been unlinked and is on no list.
func (f *Fiber) markDequeued() {
	f.tag = listNone
}
