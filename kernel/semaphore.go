package kernel

import "github.com/joeycumines/kerncore/list"

// Sema is a counting semaphore: a nonnegative integer plus two atomic
// operations, Down ("P") and Up ("V"). Unlike [Lock], a semaphore has no
// notion of ownership — any thread may Up a semaphore that another Down'd.
type Sema struct {
	s       *Scheduler
	value   int
	waiters list.List[*Thread]
}

// NewSema returns a semaphore with the given initial value, owned by s.
func NewSema(s *Scheduler, value int) *Sema {
	sem := &Sema{s: s, value: value}
	sem.waiters.Init()
	return sem
}

// Down waits for the semaphore's value to become positive, then
// atomically decrements it. May block.
func (sem *Sema) Down() {
	s := sem.s
	s.mu.Lock()
	t := s.current
	for sem.value == 0 {
		sem.waiters.PushBack(t.queueElem)
		t.status = StatusBlocked
		s.scheduleLocked()
	}
	sem.value--
	s.mu.Unlock()
	s.CheckPreempt()
}

// TryDown decrements the semaphore and returns true if its value was
// already positive, without blocking; otherwise it returns false and
// leaves the semaphore unchanged.
func (sem *Sema) TryDown() bool {
	s := sem.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if sem.value > 0 {
		sem.value--
		return true
	}
	return false
}

// upLocked is the guts of Up, usable by callers (the timer tick handler)
// that already hold s.mu. It returns the woken thread, if any, so the
// caller can decide for itself whether to request a yield — unlike Up, it
// never itself yields or checks preemption, since it may be running on
// behalf of a simulated interrupt handler rather than a thread that is
// free to give up the CPU on the spot.
func (sem *Sema) upLocked() *Thread {
	sem.value++
	v, ok := sem.waiters.MaxBy(lessEffectivePriority)
	if !ok {
		return nil
	}
	sem.waiters.Remove(v.queueElem)
	sem.s.unblockLocked(v)
	return v
}

// Up increments the semaphore's value and, if any thread is waiting,
// unblocks the highest-effective-priority waiter. If that thread now
// outranks the calling thread, Up yields to it before returning.
func (sem *Sema) Up() {
	s := sem.s
	s.mu.Lock()
	woken := sem.upLocked()
	cur := s.current
	shouldYield := woken != nil && woken.effectivePriority > cur.effectivePriority
	s.mu.Unlock()

	if shouldYield {
		s.Yield()
	} else {
		s.CheckPreempt()
	}
}
