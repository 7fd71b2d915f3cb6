package scheduler

import (
	"sync"

	"github.com/gammazero/deque"
)

// EventKind names one point in a fiber's lifecycle worth recording for
// diagnostics.
type EventKind int

const (
	EventSubmit EventKind = iota
	EventDispatchNew
	EventDispatchResume
	EventReturn
)

func (k EventKind) String() string {
	switch k {
	case EventSubmit:
		return "submit"
	case EventDispatchNew:
		return "dispatch-new"
	case EventDispatchResume:
		return "dispatch-resume"
	case EventReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Event is one entry in a Scheduler's trace ring buffer.
type Event struct {
	Kind    EventKind
	FiberID uint64 // 0 for EventSubmit
	N       int    // task count for EventSubmit, otherwise unused
}

// traceLog is a fixed-capacity circular log of recent scheduling
// events, used only for diagnostics: nothing on the dispatch path reads
// it back, and it is guarded by a plain mutex rather than the spin
// flag used elsewhere in this package, since it is never held across a
// context switch and is off the hot path entirely.
//
// Built on github.com/gammazero/deque, the same ring a coroutine
// library elsewhere uses for its semaphore waiter queue (here
// repurposed as an evict-oldest trace rather than a wait queue).
type traceLog struct {
	mu  sync.Mutex
	cap int
	buf deque.Deque[Event]
}

func newTraceLog(capacity int) *traceLog {
	if capacity <= 0 {
		return nil
	}
	return &traceLog{cap: capacity}
}

func (t *traceLog) record(ev Event) {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.buf.Len() == t.cap {
		t.buf.PopFront()
	}
	t.buf.PushBack(ev)
	t.mu.Unlock()
}

// Snapshot returns a copy of the currently buffered events, oldest
// first. It is safe to call concurrently with scheduling activity.
func (t *traceLog) Snapshot() []Event {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, t.buf.Len())
	for i := range out {
		out[i] = t.buf.At(i)
	}
	return out
}
