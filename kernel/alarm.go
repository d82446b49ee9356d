package kernel

import "github.com/joeycumines/kerncore/list"

// alarmEntry is one pending [Clock.Sleep] call: a thread parked on its own
// private semaphore until the simulated clock reaches wakeTick.
type alarmEntry struct {
	wakeTick uint64
	sema     *Sema
	elem     *list.Elem[*alarmEntry]
}

// alarmList holds every thread currently sleeping. Unlike the original
// kernel's sleeping_threads, which is kept sorted by wake time for O(1)
// access to the soonest deadline, this keeps insertion order and scans the
// whole list on each tick; the scan is bounded by the number of
// simultaneously sleeping threads, which this package's test scenarios
// never make large enough for the difference to matter.
type alarmList struct {
	entries list.List[*alarmEntry]
}

func (a *alarmList) init() { a.entries.Init() }

func (a *alarmList) insert(e *alarmEntry) {
	a.entries.PushBack(e.elem)
}

// wakeDue removes and returns every entry whose wakeTick has arrived. Must
// be called with the owning scheduler's mu held.
func (a *alarmList) wakeDue(now uint64) []*alarmEntry {
	var due []*alarmEntry
	var next *list.Elem[*alarmEntry]
	for e := a.entries.Front(); e != nil; e = next {
		next = a.entries.Next(e)
		if e.Value.wakeTick <= now {
			a.entries.Remove(e)
			due = append(due, e.Value)
		}
	}
	return due
}

// Clock exposes tick-relative and wall-clock-relative sleeping, backed by
// the scheduler's simulated timer ticks. Obtain one from [Scheduler.Clock].
type Clock struct {
	s *Scheduler
}

// Clock returns the tick-relative and wall-clock-relative sleep API bound
// to s.
func (s *Scheduler) Clock() Clock { return Clock{s: s} }

// Ticks returns the number of simulated timer ticks since the scheduler
// was created.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickCount
}

// Sleep blocks the calling thread for approximately the given number of
// timer ticks. A non-positive duration returns immediately.
func (c Clock) Sleep(ticks int64) {
	if ticks <= 0 {
		return
	}
	s := c.s
	sema := NewSema(s, 0)

	s.mu.Lock()
	e := &alarmEntry{wakeTick: s.tickCount + uint64(ticks), sema: sema}
	e.elem = list.NewElem(e)
	s.alarms.insert(e)
	s.mu.Unlock()

	sema.Down()
}

// ticksFor converts a duration expressed as num/denom seconds into a
// (possibly zero) number of timer ticks, rounding toward zero exactly like
// the original kernel's real_time_sleep.
func (c Clock) ticksFor(num, denom int64) int64 {
	return num * int64(c.s.cfg.TimerFreq) / denom
}

// MSleep blocks for approximately ms milliseconds.
func (c Clock) MSleep(ms int64) { c.Sleep(c.ticksFor(ms, 1000)) }

// USleep blocks for approximately us microseconds. Sub-tick durations are
// rounded down to zero ticks and return immediately: this package doesn't
// simulate a busy-wait loop calibrated against a real CPU clock, since
// there is no real CPU clock backing a goroutine to calibrate against.
func (c Clock) USleep(us int64) { c.Sleep(c.ticksFor(us, 1000*1000)) }

// NSleep blocks for approximately ns nanoseconds, subject to the same
// sub-tick rounding as USleep.
func (c Clock) NSleep(ns int64) { c.Sleep(c.ticksFor(ns, 1000*1000*1000)) }
