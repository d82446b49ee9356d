// Package kernel implements a cooperative, single-CPU thread scheduler:
// priority donation locks, condition variables, an alarm clock, and an
// optional 4.4BSD-style multilevel feedback queue scheduler (MLFQS).
//
// There is exactly one logical CPU. At any instant exactly one [Thread] is
// allowed to be executing kernel or "user" code; every other live thread is
// either sitting in a ready queue or parked inside a blocking primitive. Go
// cannot save and restore an arbitrary goroutine's call stack the way a real
// kernel context-switches between thread stacks, so this package simulates
// the effect instead: each thread is its own goroutine, and the scheduler
// hands control between them one at a time over a per-thread "resume"
// channel, exactly as a baton is passed in a relay. Only the thread holding
// the baton may touch kernel state outside of [Scheduler.mu]; everyone else
// is blocked on a channel receive. See [Scheduler.scheduleLocked].
//
// Likewise, real hardware can interrupt the running thread at any
// instruction; a Go goroutine cannot be paused from the outside at an
// arbitrary point. Preemption here is therefore cooperative: a simulated
// timer tick sets a flag, and the running thread observes it (and yields)
// only at defined safe points — returning from a blocking primitive, a
// [Sema.Up] that does not yield, or an explicit call to
// [Scheduler.CheckPreempt] in a long-running thread body. A
// thread body that never blocks and never calls CheckPreempt keeps the CPU
// indefinitely, the same as a real kernel thread that never re-enables
// interrupts.
package kernel
