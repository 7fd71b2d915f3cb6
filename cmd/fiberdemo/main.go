// Command fiberdemo is the external worker-thread pool the scheduler
// package itself deliberately does not provide: the runtime neither
// creates nor owns OS threads, it assumes the caller supplies one or
// more worker threads. It drives a scheduler.Scheduler with N
// goroutines, each looping Poll, and runs a handful of end-to-end
// scenarios as runnable demonstrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fiberrt/fiberrt/scheduler"
)

func main() {
	workers := flag.Int("workers", 4, "number of driving worker goroutines")
	scenario := flag.String("scenario", "fan-in", "scenario to run: single, fan-in, producer-consumer, fairness, nested, blocking-chain")
	flag.Parse()

	sched := scheduler.New(scheduler.Config{TraceCapacity: 256})

	var run func(*scheduler.Scheduler) *scheduler.Barrier
	switch *scenario {
	case "single":
		run = scenarioSingle
	case "fan-in":
		run = scenarioFanIn
	case "producer-consumer":
		run = scenarioProducerConsumer
	case "fairness":
		run = scenarioFairness
	case "nested":
		run = scenarioNested
	case "blocking-chain":
		run = scenarioBlockingChain
	default:
		log.Fatalf("fiberdemo: unknown scenario %q", *scenario)
	}

	barrier := run(sched)
	driveUntil(sched, *workers, barrier)

	for _, ev := range sched.TraceSnapshot() {
		fmt.Printf("trace: %s fiber=%d n=%d\n", ev.Kind, ev.FiberID, ev.N)
	}
}

// driveUntil runs workers goroutines, each looping Poll, until a
// separate watcher fiber observes barrier released, then cancels the
// group. This is the caller-provided policy the scheduler leaves
// unspecified for an empty queue: back off briefly rather than spin
// unboundedly.
func driveUntil(sched *scheduler.Scheduler, workers int, barrier *scheduler.Barrier) {
	ctx, cancel := context.WithCancel(context.Background())

	sched.Submit([]scheduler.TaskDecl{{
		Fn: func(self *scheduler.Fiber, _ any) {
			barrier.Wait(self)
			cancel()
		},
	}})

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if !sched.Poll() {
					time.Sleep(time.Millisecond)
				}
			}
		})
	}
	_ = g.Wait()
}

func scenarioSingle(sched *scheduler.Scheduler) *scheduler.Barrier {
	var cell atomic.Uint32
	return sched.SubmitWithBarrier([]scheduler.TaskDecl{{
		Fn: func(_ *scheduler.Fiber, _ any) {
			cell.Store(0xA5)
		},
	}})
}

func scenarioFanIn(sched *scheduler.Scheduler) *scheduler.Barrier {
	sem := sched.NewSemaphore(1)
	var counter atomic.Int64

	decls := make([]scheduler.TaskDecl, 100)
	for i := range decls {
		decls[i] = scheduler.TaskDecl{
			Fn: func(self *scheduler.Fiber, _ any) {
				sem.Wait(self)
				counter.Add(1)
				sem.Signal()
			},
		}
	}
	return sched.SubmitWithBarrier(decls)
}

func scenarioProducerConsumer(sched *scheduler.Scheduler) *scheduler.Barrier {
	sem := sched.NewSemaphore(0)

	producer := scheduler.TaskDecl{
		Fn: func(self *scheduler.Fiber, _ any) {
			for i := 0; i < 10; i++ {
				sem.Signal()
			}
		},
	}
	var wakeups atomic.Int64
	consumer := scheduler.TaskDecl{
		Fn: func(self *scheduler.Fiber, _ any) {
			for i := 0; i < 10; i++ {
				sem.Wait(self)
				wakeups.Add(1)
			}
		},
	}
	return sched.SubmitWithBarrier([]scheduler.TaskDecl{producer, consumer})
}

func scenarioFairness(sched *scheduler.Scheduler) *scheduler.Barrier {
	decls := make([]scheduler.TaskDecl, 1000)
	for i := range decls {
		decls[i] = scheduler.TaskDecl{Fn: func(_ *scheduler.Fiber, _ any) {}}
	}
	return sched.SubmitWithBarrier(decls)
}

func scenarioNested(sched *scheduler.Scheduler) *scheduler.Barrier {
	return sched.SubmitWithBarrier([]scheduler.TaskDecl{{
		Fn: func(self *scheduler.Fiber, _ any) {
			childDecls := make([]scheduler.TaskDecl, 5)
			for i := range childDecls {
				childDecls[i] = scheduler.TaskDecl{Fn: func(_ *scheduler.Fiber, _ any) {}}
			}
			childBarrier := sched.SubmitWithBarrier(childDecls)
			childBarrier.Wait(self)
		},
	}})
}

func scenarioBlockingChain(sched *scheduler.Scheduler) *scheduler.Barrier {
	b := sched.NewBarrier(3)

	t1 := scheduler.TaskDecl{Fn: func(self *scheduler.Fiber, _ any) { b.Wait(self) }}
	t2 := scheduler.TaskDecl{Fn: func(self *scheduler.Fiber, _ any) { b.Wait(self) }}
	t3 := scheduler.TaskDecl{Fn: func(_ *scheduler.Fiber, _ any) {
		b.Signal()
		b.Signal()
		b.Signal()
	}}
	return sched.SubmitWithBarrier([]scheduler.TaskDecl{t1, t2, t3})
}
