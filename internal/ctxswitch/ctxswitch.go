// Package ctxswitch realizes the fiber runtime's save/restore pairing:
// suspend the execution in progress, resume a previously suspended (or
// brand-new) one, and do it without the caller ever observing which of
// the two actually happened.
//
// A classic fiber context switch does this by pushing callee-saved
// registers onto the current stack and swapping the stack pointer for
// a different one. That trick is not available to Go code operating on
// its own goroutine: the runtime tracks each goroutine's stack bounds
// for the morestack growth check, for garbage-collector stack scanning,
// and for asynchronous preemption, and none of that bookkeeping follows
// a manually swapped SP. So instead each fiber is backed by a genuine
// goroutine, and SaveAndYield/Restore are realized as a two-channel
// baton handoff between that goroutine and whichever worker is driving
// it. Apart from the publish callback, which SaveAndYield runs after it
// has already handed control back to the driver, exactly one side of
// the handoff runs at a time.
package ctxswitch

// Context is one fiber's resumption point. The zero value is not usable;
// construct with New.
type Context struct {
	resume chan struct{}
	parked chan struct{}
}

// New allocates a Context ready for a first Start.
func New() *Context {
	return &Context{
		resume: make(chan struct{}),
		parked: make(chan struct{}),
	}
}

// Start launches fn on a new goroutine bound to this Context and blocks
// the calling goroutine until fn either suspends by calling SaveAndYield
// or returns outright. This is the "New fiber" case of Restore: there is
// no saved slot yet, so control instead bootstraps directly into the
// task entry point.
func (c *Context) Start(fn func()) {
	go func() {
		fn()
		c.parked <- struct{}{}
	}()
	<-c.parked
}

// SaveAndYield suspends the calling goroutine at this exact point and
// does not return until a matching Restore call wakes it again. It must
// be called from inside the goroutine previously launched by Start.
//
// publish is called after the suspension has already been handed off to
// the driving Start/Restore call (the send on parked has already been
// received) but before this goroutine blocks waiting for the next
// Restore. This is the save-then-publish ordering spec §4.5's Block
// mode calls for: whatever publish does to make this fiber reachable
// by another worker — splicing it onto a primitive's waiter list or the
// ready queue, and releasing the lock that guards that list — must not
// be observable before this goroutine has actually reached the parking
// rendezvous, or a second worker could call Restore on a fiber that has
// not parked yet. Passing that step in as a callback, rather than
// letting the caller publish and then call SaveAndYield, is what
// guarantees the ordering instead of merely documenting it.
func (c *Context) SaveAndYield(publish func()) {
	c.parked <- struct{}{}
	publish()
	<-c.resume
}

// Restore wakes a fiber goroutine that previously called SaveAndYield
// and blocks the caller until that goroutine either parks again (a
// further SaveAndYield) or runs to completion. It must not be called
// concurrently with another Restore on the same Context, nor before the
// matching Start/SaveAndYield has actually parked — SaveAndYield's
// publish callback is what a caller relies on to make that true.
func (c *Context) Restore() {
	c.resume <- struct{}{}
	<-c.parked
}
