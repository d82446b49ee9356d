package kernel

import "github.com/joeycumines/kerncore/fixedpoint"

// mlfqsState holds the global bookkeeping for [PolicyMLFQS]: the
// system-wide load average, and a fixed-capacity ring recording which
// thread was running during each of the last TimeSlice ticks, used to
// avoid recomputing every thread's priority on every tick.
type mlfqsState struct {
	loadAvg fixedpoint.Fixed
	ring    []*Thread
}

func (m *mlfqsState) init() {
	m.loadAvg = fixedpoint.Zero
}

func (m *mlfqsState) ensureRing(size int) {
	if len(m.ring) != size {
		m.ring = make([]*Thread, size)
	}
}

// mlfqsPriority computes a thread's priority from its recent CPU usage and
// niceness, matching mlfqs_calc_priority: PriMax - round(recentCPU/4) -
// 2*nice, clamped to [PriMin, PriMax].
func mlfqsPriority(t *Thread) int {
	raw := PriMax - t.recentCPU.DivInt(4).ToIntRound() - 2*t.nice
	if raw < PriMin {
		return PriMin
	}
	if raw > PriMax {
		return PriMax
	}
	return raw
}

// mlfqsOnTickLocked is the MLFQS half of the timer tick handler: bump the
// current thread's recent_cpu every tick, recompute every thread's
// recent_cpu and priority once per second, and recompute just the threads
// that ran during the last TimeSlice ticks every TimeSlice ticks
// otherwise. Must be called with mu held.
func (s *Scheduler) mlfqsOnTickLocked() {
	m := &s.mlfqs
	m.ensureRing(s.cfg.TimeSlice)

	slot := int(s.tickCount % uint64(s.cfg.TimeSlice))
	m.ring[slot] = s.current

	if s.current != s.idle {
		s.current.recentCPU = s.current.recentCPU.AddInt(1)
	}

	switch {
	case s.tickCount%uint64(s.cfg.TimerFreq) == 0:
		s.mlfqsUpdateLoadAvgLocked()
		s.all.Each(func(t *Thread) {
			s.mlfqsUpdateRecentCPULocked(t)
			s.mlfqsReassignLocked(t)
		})
	case slot == 0:
		for _, t := range m.ring {
			if t == nil || t == s.idle {
				continue
			}
			s.mlfqsReassignLocked(t)
		}
	}
}

func (s *Scheduler) mlfqsUpdateLoadAvgLocked() {
	m := &s.mlfqs
	readyCount := s.ready.len()
	if s.current != s.idle {
		readyCount++
	}
	fiftyNineSixtieths := fixedpoint.FromInt(59).Div(fixedpoint.FromInt(60))
	oneSixtieth := fixedpoint.FromInt(1).Div(fixedpoint.FromInt(60))
	m.loadAvg = fiftyNineSixtieths.Mul(m.loadAvg).Add(oneSixtieth.MulInt(readyCount))
}

func (s *Scheduler) mlfqsUpdateRecentCPULocked(t *Thread) {
	loadAvg := s.mlfqs.loadAvg
	k := loadAvg.MulInt(2)
	coeff := k.Div(k.AddInt(1))
	t.recentCPU = coeff.Mul(t.recentCPU).AddInt(t.nice)
}

// mlfqsReassignLocked recomputes t's priority and, if it changed while t
// sits in the ready queue, re-inserts it so the queue reflects the new
// value. Must be called with mu held.
func (s *Scheduler) mlfqsReassignLocked(t *Thread) {
	old := t.effectivePriority
	next := mlfqsPriority(t)
	t.basePriority = next
	t.effectivePriority = next
	if next != old && t.status == StatusReady && t != s.idle {
		s.ready.reinsert(t)
	}
}

// LoadAvg returns 100 times the current system load average, matching
// thread_get_load_avg. Only meaningful under PolicyMLFQS.
func (s *Scheduler) LoadAvg() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mlfqs.loadAvg.MulInt(100).ToIntRound()
}

// RecentCPU returns 100 times the given thread's recent CPU usage,
// matching thread_get_recent_cpu. Only meaningful under PolicyMLFQS.
func (s *Scheduler) RecentCPU(t *Thread) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.recentCPU.MulInt(100).ToIntRound()
}

// SetNice sets the calling thread's niceness, recomputes its priority, and
// yields if some other ready thread now outranks it. Only meaningful under
// PolicyMLFQS; on PolicyDonation it still records the value (for
// GetNice) but it has no effect on scheduling.
func (s *Scheduler) SetNice(nice int) error {
	if nice < NiceMin || nice > NiceMax {
		return ErrInvalidNice
	}
	s.mu.Lock()
	t := s.current
	t.nice = nice
	shouldYield := false
	if s.cfg.Policy == PolicyMLFQS {
		t.basePriority = mlfqsPriority(t)
		t.effectivePriority = t.basePriority
		shouldYield = s.ready.peekMax() > t.effectivePriority
	}
	s.mu.Unlock()
	if shouldYield {
		s.Yield()
	}
	return nil
}

// GetNice returns the calling thread's niceness.
func (s *Scheduler) GetNice() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.nice
}
