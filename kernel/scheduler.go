package kernel

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/kerncore/klog"
	"github.com/joeycumines/kerncore/list"
)

// EntryFunc is a thread's body. s is always the Scheduler that created the
// thread, and s.Current() is always the calling thread itself — there is
// exactly one CPU, so whichever goroutine is executing an EntryFunc is, by
// construction, the current thread.
type EntryFunc func(s *Scheduler, arg any)

// Scheduler owns every thread's bookkeeping and the single simulated CPU.
// All exported methods are safe to call concurrently from any thread's
// goroutine; internally they serialize on mu, which plays the role of
// disabling interrupts in the original kernel.
type Scheduler struct {
	cfg Config
	log *klog.Logger

	// mu guards every field below and every Thread field. Held only for
	// the duration of a bookkeeping decision, never across a baton
	// handoff or a parked receive — see scheduleLocked.
	mu sync.Mutex

	ready   readyQueue
	current *Thread
	idle    *Thread
	all     list.List[*Thread]
	nextID  ThreadID

	tickCount  uint64
	idleTicks  uint64
	kernelTicks uint64
	userTicks  uint64

	alarms alarmList

	mlfqs mlfqsState

	preempt atomic.Bool
}

// New constructs a Scheduler and transforms the calling goroutine into its
// initial thread, named "main", analogous to thread_init() adopting the
// boot stack as the first kernel thread. It then creates the idle thread.
// The calling goroutine should be treated as thread "main" from this point
// on: it may call Block, Yield, and the rest of the scheduler API directly.
func New(cfg Config) (*Scheduler, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{cfg: cfg, log: cfg.Logger}
	if cfg.Policy == PolicyMLFQS {
		s.ready = newReadyMLFQS()
		s.mlfqs.init()
	} else {
		s.ready = newReadyDonation()
	}
	s.all.Init()
	s.alarms.init()

	main := s.newThreadLocked("main", PriDefault)
	main.status = StatusRunning
	s.current = main

	idle := s.newThreadLocked("idle", PriMin)
	idle.status = StatusBlocked
	s.idle = idle
	s.ready.setIdle(idle)
	go idle.runIdle(s)

	s.log.Info().Str("policy", cfg.Policy.String()).Int("timer_freq", cfg.TimerFreq).Int("time_slice", cfg.TimeSlice).Log("kernel: scheduler started")
	return s, nil
}

func (s *Scheduler) newThreadLocked(name string, basePriority int) *Thread {
	t := &Thread{
		magic:             threadMagic,
		id:                s.nextID,
		name:              name,
		status:            StatusBlocked,
		basePriority:      basePriority,
		effectivePriority: basePriority,
		resume:            make(chan struct{}, 1),
	}
	s.nextID++
	t.allElem = list.NewElem(t)
	t.queueElem = list.NewElem(t)
	s.all.PushBack(t.allElem)
	return t
}

// Create allocates a new thread named name, with the given base priority,
// and makes it ready to run. entry runs on its own goroutine once the
// scheduler chooses to run it; when entry returns, the thread exits
// automatically (equivalent to calling Exit from within entry).
//
// If the newly created thread's effective priority exceeds the calling
// thread's, Create yields the CPU to it before returning, matching
// thread_create's immediate-preemption behavior.
func (s *Scheduler) Create(name string, basePriority int, entry EntryFunc, arg any) (ThreadID, error) {
	if basePriority < PriMin || basePriority > PriMax {
		return 0, ErrInvalidPriority
	}
	s.mu.Lock()
	if s.cfg.MaxThreads > 0 && s.liveCountLocked() >= s.cfg.MaxThreads {
		s.mu.Unlock()
		return 0, ErrNoThreadSlots
	}
	t := s.newThreadLocked(name, basePriority)
	if s.cfg.Policy == PolicyMLFQS {
		cur := s.current
		t.nice = cur.nice
		t.recentCPU = cur.recentCPU
		t.effectivePriority = mlfqsPriority(t)
		t.basePriority = t.effectivePriority
	}
	s.mu.Unlock()

	go t.run(s, entry, arg)

	s.mu.Lock()
	s.unblockLocked(t)
	shouldYield := t.effectivePriority > s.current.effectivePriority
	s.mu.Unlock()

	s.log.Debug().Str("name", name).Int("priority", basePriority).Log("kernel: thread created")

	if shouldYield {
		s.Yield()
	}
	return t.id, nil
}

func (s *Scheduler) liveCountLocked() int { return s.all.Len() }

func (t *Thread) run(s *Scheduler, entry EntryFunc, arg any) {
	<-t.resume
	entry(s, arg)
	s.Exit()
}

func (t *Thread) runIdle(s *Scheduler) {
	<-t.resume
	for {
		s.Block()
	}
}

// Current returns the calling thread. It is only meaningful when called
// from a thread's own EntryFunc (or the goroutine that called New).
func (s *Scheduler) Current() *Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ForEach calls fn once for every live thread, in creation order. fn must
// not call back into the scheduler.
func (s *Scheduler) ForEach(fn func(t *Thread)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all.Each(fn)
}

// scheduleLocked picks the next thread to run and, if it differs from the
// current one, hands off the simulated CPU. It always marks the chosen
// thread StatusRunning and resets its sliceTicks, even when that thread is
// the caller itself re-selected with nothing else ready to run — matching
// thread_schedule_tail, which the original kernel's schedule() calls
// unconditionally regardless of whether switch_threads actually ran. Must
// be called with mu held; it unlocks mu before the handoff and (except
// when the outgoing thread is StatusDying) reacquires it before returning,
// so that callers can always write as though mu were held for the whole
// call — this is the same contract the original kernel's schedule() has
// with respect to interrupts.
//
// If the outgoing thread is StatusDying, scheduleLocked does not reacquire
// mu: its goroutine is about to terminate (see Exit) and must not touch any
// more kernel state.
func (s *Scheduler) scheduleLocked() {
	cur := s.current
	next := s.ready.pop()
	s.current = next
	next.status = StatusRunning
	next.sliceTicks = 0
	if next == cur {
		return
	}

	dying := cur.status == StatusDying

	s.log.Trace().Str("from", cur.name).Str("to", next.name).Log("kernel: context switch")

	s.mu.Unlock()
	next.resume <- struct{}{}
	if dying {
		return
	}
	<-cur.resume
	s.mu.Lock()
}

// Block marks the calling thread StatusBlocked and switches to another
// thread. The caller must already have linked the thread into whatever
// waiter list will eventually unblock it (or, for the idle thread, into
// nothing at all) before calling Block.
func (s *Scheduler) Block() {
	s.mu.Lock()
	t := s.current
	kassert(s.log, t.status == StatusRunning, "Block: current thread is not running")
	t.status = StatusBlocked
	s.scheduleLocked()
	s.mu.Unlock()
}

// Unblock moves t from StatusBlocked to StatusReady and enqueues it. It
// does not itself switch threads, matching thread_unblock: the caller (an
// interrupt handler, or a thread releasing a resource) decides separately
// whether to yield.
func (s *Scheduler) Unblock(t *Thread) {
	s.mu.Lock()
	s.unblockLocked(t)
	s.mu.Unlock()
}

func (s *Scheduler) unblockLocked(t *Thread) {
	kassert(s.log, t.magic == threadMagic, "Unblock: thread magic mismatch")
	kassert(s.log, t.status == StatusBlocked, "Unblock: thread is not blocked")
	t.status = StatusReady
	s.ready.push(t)
}

// Yield puts the calling thread back onto the ready queue (unless it is
// the idle thread) and switches to the next-highest-priority ready thread,
// which may be the caller itself.
func (s *Scheduler) Yield() {
	s.mu.Lock()
	t := s.current
	if t != s.idle {
		t.status = StatusReady
		s.ready.push(t)
	}
	s.scheduleLocked()
	s.mu.Unlock()
}

// Exit removes the calling thread from the scheduler permanently and
// switches away from it. Exit never returns: once the CPU has been handed
// to the next thread, it ends the calling goroutine with [runtime.Goexit],
// so the rest of the EntryFunc (other than its deferred calls) never runs.
func (s *Scheduler) Exit() {
	s.mu.Lock()
	t := s.current
	s.all.Remove(t.allElem)
	t.status = StatusDying
	s.log.Debug().Str("name", t.name).Log("kernel: thread exiting")
	s.scheduleLocked()
	// mu is not held here: scheduleLocked saw a dying outgoing thread and
	// returned without reacquiring it. This goroutine must do nothing
	// more.
	runtime.Goexit()
}

// CheckPreempt yields the CPU if a simulated timer tick has requested
// preemption and no earlier CheckPreempt call has consumed that request.
// The request is held by the scheduler, not by a particular thread, and a
// context switch does not clear it. Long-running, CPU-bound thread bodies
// should call this periodically; Sema.Down (and so Lock.Acquire, Cond.Wait
// and a positive-duration Clock.Sleep) already checks it on the caller's
// behalf each time it returns, as does Sema.Up when it does not yield.
func (s *Scheduler) CheckPreempt() {
	if s.preempt.CompareAndSwap(true, false) {
		s.Yield()
	}
}
