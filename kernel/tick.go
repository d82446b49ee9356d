package kernel

// tick advances the simulated clock by one timer tick: it accounts time to
// whichever thread is current, runs the MLFQS recomputation (if enabled),
// wakes any threads whose [Clock.Sleep] deadline has arrived, and enforces
// the time slice. It is the scheduler-side half of the simulated timer
// interrupt handler; see [Machine] for what drives it.
//
// Like a real timer ISR, tick never yields directly — it only sets the
// preempt flag that the running thread observes at its next safe point
// (see [Scheduler.CheckPreempt]), because it may be running concurrently
// with, rather than instead of, the current thread's own goroutine.
func (s *Scheduler) tick() {
	s.mu.Lock()
	s.tickCount++
	if s.current == s.idle {
		s.idleTicks++
	} else {
		s.kernelTicks++
	}

	if s.cfg.Policy == PolicyMLFQS {
		s.mlfqsOnTickLocked()
	}

	due := s.alarms.wakeDue(s.tickCount)
	var highestWoken int = -1
	for _, e := range due {
		if woken := e.sema.upLocked(); woken != nil && woken.effectivePriority > highestWoken {
			highestWoken = woken.effectivePriority
		}
	}

	cur := s.current
	if cur != s.idle {
		cur.sliceTicks++
		if cur.sliceTicks >= s.cfg.TimeSlice {
			highestWoken = max(highestWoken, cur.effectivePriority+1)
		}
	}

	if highestWoken > cur.effectivePriority {
		s.preempt.Store(true)
	}
	s.mu.Unlock()
}

// Stats returns the cumulative tick, idle-tick, kernel-tick, and
// user-tick counts, matching thread_print_stats. userTicks is always
// zero: this package has no notion of a distinct user mode, since loading
// and running user programs is out of scope here.
func (s *Scheduler) Stats() (ticks, idleTicks, kernelTicks, userTicks uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickCount, s.idleTicks, s.kernelTicks, s.userTicks
}
