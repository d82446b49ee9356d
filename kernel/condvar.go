package kernel

import "github.com/joeycumines/kerncore/list"

// Cond is a Mesa-style condition variable: signaling and waiting are not
// atomic with respect to each other, so a woken waiter must recheck
// whatever condition it was waiting for before proceeding (typically in a
// for loop around Wait). A Cond is associated with a single [Lock] at a
// time, supplied to Wait, Signal, and Broadcast by the caller; the lock
// must be held across all three.
type Cond struct {
	s       *Scheduler
	waiters list.List[*condWaiter]
}

// condWaiter is the analogue of struct semaphore_elem: each Wait call gets
// its own private binary semaphore so that Signal can wake exactly one
// specific waiter rather than racing on a shared counter. priority is a
// snapshot of the waiting thread's effective priority taken at the moment
// it queued, used to pick which waiter Signal wakes first.
type condWaiter struct {
	sema     *Sema
	priority int
	elem     *list.Elem[*condWaiter]
}

// NewCond returns a condition variable owned by s.
func NewCond(s *Scheduler) *Cond {
	c := &Cond{s: s}
	c.waiters.Init()
	return c
}

// Wait atomically releases lock and blocks until Signal or Broadcast wakes
// this particular call, then reacquires lock before returning. lock must
// be held by the calling thread.
func (c *Cond) Wait(lock *Lock) error {
	if !lock.HeldByCurrent() {
		return ErrLockNotHeld
	}

	w := &condWaiter{sema: NewSema(c.s, 0)}
	w.elem = list.NewElem(w)

	c.s.mu.Lock()
	w.priority = c.s.current.effectivePriority
	c.waiters.PushBack(w.elem)
	c.s.mu.Unlock()

	if err := lock.Release(); err != nil {
		return err
	}
	w.sema.Down()
	return lock.Acquire()
}

// Signal wakes one thread waiting on c, if any are waiting: the one whose
// effective priority, as recorded when it called Wait, is highest (ties go
// to the earliest waiter). A change to a waiter's priority after it queued
// does not affect the choice. lock must be held by the calling thread,
// matching the lock Wait was called with.
func (c *Cond) Signal(lock *Lock) error {
	if !lock.HeldByCurrent() {
		return ErrLockNotHeld
	}
	c.s.mu.Lock()
	v, ok := c.waiters.MaxBy(lessWaiterPriority)
	if ok {
		c.waiters.Remove(v.elem)
	}
	c.s.mu.Unlock()
	if ok {
		v.sema.Up()
	}
	return nil
}

// Broadcast wakes every thread currently waiting on c. lock must be held
// by the calling thread.
func (c *Cond) Broadcast(lock *Lock) error {
	for {
		c.s.mu.Lock()
		empty := c.waiters.Empty()
		c.s.mu.Unlock()
		if empty {
			return nil
		}
		if err := c.Signal(lock); err != nil {
			return err
		}
	}
}

// lessWaiterPriority orders condWaiters by the effective priority the
// waiting thread had when it queued, the analogue of less_sema_priority.
func lessWaiterPriority(a, b *condWaiter) bool {
	return a.priority < b.priority
}
