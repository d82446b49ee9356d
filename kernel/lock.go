package kernel

// Lock is a specialization of [Sema] with an initial value of 1, owned by
// whichever thread last acquired it. Unlike a semaphore, the same thread
// must both acquire and release a Lock, and under [PolicyDonation] a
// thread blocked waiting for a Lock donates its effective priority to the
// lock's holder — and, transitively, to whatever that holder is itself
// blocked on — so that a low-priority thread holding a contested lock
// cannot be starved by medium-priority threads that don't even want the
// lock. Locks are not recursive: acquiring a lock already held by the
// calling thread is an error.
type Lock struct {
	s    *Scheduler
	sema *Sema

	holder *Thread

	// cachedPriority is the highest effective priority of any thread
	// currently waiting on this lock, or 0 (PriMin) if none are. Only
	// meaningful, and only maintained, under PolicyDonation.
	cachedPriority int
}

// NewLock returns an unlocked Lock owned by s.
func NewLock(s *Scheduler) *Lock {
	return &Lock{s: s, sema: NewSema(s, 1)}
}

// cachedPriorityLocked returns the lock's current donation level. Must be
// called with the scheduler's mu held.
func (l *Lock) cachedPriorityLocked() int { return l.cachedPriority }

// recalcCachedPriorityLocked recomputes cachedPriority from the lock's
// semaphore's current waiter list, mirroring recalc_cached_lock_priority.
// Must be called with mu held.
func (l *Lock) recalcCachedPriorityLocked() int {
	v, ok := l.sema.waiters.MaxBy(lessEffectivePriority)
	if !ok {
		return 0
	}
	return v.effectivePriority
}

// donateLockPriorityLocked raises l's cached priority to newPriority and,
// if that exceeds the holder's own effective priority, donates to the
// holder in turn — walking however far the chain of "blocked waiting for a
// lock held by a thread blocked waiting for a lock..." goes. Must be
// called with mu held.
func donateLockPriorityLocked(l *Lock, newPriority int) {
	l.cachedPriority = newPriority
	if l.holder != nil && newPriority > l.holder.effectivePriority {
		donateThreadPriorityLocked(l.holder, newPriority)
	}
}

func donateThreadPriorityLocked(t *Thread, newPriority int) {
	t.effectivePriority = newPriority
	if t.blockedOnLock != nil && newPriority > t.blockedOnLock.cachedPriority {
		donateLockPriorityLocked(t.blockedOnLock, newPriority)
	}
}

// Acquire waits until the lock is free, then takes it. May block, and may
// donate the calling thread's priority to the current holder while
// waiting.
func (l *Lock) Acquire() error {
	s := l.s
	s.mu.Lock()
	cur := s.current
	if l.holder == cur {
		s.mu.Unlock()
		return ErrLockAlreadyHeld
	}
	if l.holder != nil {
		cur.blockedOnLock = l
		if s.cfg.Policy == PolicyDonation && cur.effectivePriority > l.cachedPriority {
			donateLockPriorityLocked(l, cur.effectivePriority)
		}
	}
	s.mu.Unlock()

	l.sema.Down()

	s.mu.Lock()
	cur.blockedOnLock = nil
	if s.cfg.Policy == PolicyDonation {
		l.cachedPriority = l.recalcCachedPriorityLocked()
	}
	l.holder = cur
	cur.heldLocks = append(cur.heldLocks, l)
	if s.cfg.Policy == PolicyDonation && cur.effectivePriority < l.cachedPriority {
		cur.effectivePriority = l.cachedPriority
	}
	s.mu.Unlock()
	return nil
}

// TryAcquire takes the lock without blocking if it is free, returning
// true; otherwise it returns false immediately.
func (l *Lock) TryAcquire() (bool, error) {
	s := l.s
	s.mu.Lock()
	cur := s.current
	if l.holder == cur {
		s.mu.Unlock()
		return false, ErrLockAlreadyHeld
	}
	s.mu.Unlock()

	if !l.sema.TryDown() {
		return false, nil
	}

	s.mu.Lock()
	l.holder = cur
	cur.heldLocks = append(cur.heldLocks, l)
	s.mu.Unlock()
	return true, nil
}

// Release releases the lock, which must be held by the calling thread.
// Releasing recomputes the calling thread's effective priority from its
// remaining held locks, undoing any donation that was only owed because of
// this lock.
func (l *Lock) Release() error {
	s := l.s
	s.mu.Lock()
	cur := s.current
	if l.holder != cur {
		s.mu.Unlock()
		return ErrLockNotHeld
	}
	l.holder = nil
	cur.heldLocks = removeLock(cur.heldLocks, l)
	cur.recomputeEffectiveLocked()
	s.mu.Unlock()

	l.sema.Up()
	return nil
}

// HeldByCurrent reports whether the calling thread currently holds l.
func (l *Lock) HeldByCurrent() bool {
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return l.holder == s.current
}

func removeLock(locks []*Lock, target *Lock) []*Lock {
	for i, l := range locks {
		if l == target {
			return append(locks[:i], locks[i+1:]...)
		}
	}
	return locks
}
