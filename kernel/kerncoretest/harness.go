// Package kerncoretest provides deterministic scaffolding for tests in
// package kernel and its callers: a background tick driver that doesn't
// depend on wall-clock timing, and a default test [kernel.Config].
package kerncoretest

import (
	"github.com/joeycumines/kerncore/kernel"
	"github.com/joeycumines/kerncore/klog"
)

// Config returns a Config suitable for tests: logging disabled, the given
// policy, and otherwise default timing parameters.
func Config(policy kernel.Policy) kernel.Config {
	return kernel.Config{
		Policy: policy,
		Logger: klog.Nop(),
	}
}

// TickDriver repeatedly advances a [kernel.Machine] by one tick at a time
// from its own goroutine, standing in for real elapsed wall-clock time so
// that scenario tests (MLFQS fairness over many seconds of simulated
// time, alarm-clock ordering, preemption after a time slice) run in
// however long the scheduling logic itself takes, not however long the
// equivalent real time would be.
type TickDriver struct {
	m      *kernel.Machine
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewTickDriver starts driving m's ticks in the background immediately.
func NewTickDriver(m *kernel.Machine) *TickDriver {
	d := &TickDriver{
		m:      m,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *TickDriver) run() {
	defer close(d.doneCh)
	for {
		select {
		case <-d.stopCh:
			return
		default:
			d.m.AdvanceTicks(1)
		}
	}
}

// Stop halts the background driver and waits for its goroutine to exit.
func (d *TickDriver) Stop() {
	close(d.stopCh)
	<-d.doneCh
}

// RunUntil starts a scheduler and machine for the given config, runs fn
// with a [TickDriver] already advancing ticks in the background, and
// stops the driver once fn returns. fn is typically a scenario that
// blocks on some completion signal (a [kernel.Sema] or [kernel.Lock]) set
// by worker threads it creates.
func RunUntil(cfg kernel.Config, fn func(s *kernel.Scheduler, m *kernel.Machine)) {
	s, err := kernel.New(cfg)
	if err != nil {
		panic(err)
	}
	m := kernel.NewMachine(s)
	d := NewTickDriver(m)
	defer d.Stop()
	fn(s, m)
}

// WaitGroup is a scheduler-native analogue of sync.WaitGroup, built on a
// [kernel.Lock] and [kernel.Cond] rather than OS-level primitives, for
// tests that need to block the calling thread until N worker threads have
// each called Done.
type WaitGroup struct {
	lock      *kernel.Lock
	cond      *kernel.Cond
	remaining int
}

// NewWaitGroup returns a WaitGroup owned by s, initially expecting n
// calls to Done.
func NewWaitGroup(s *kernel.Scheduler, n int) *WaitGroup {
	wg := &WaitGroup{
		lock:      kernel.NewLock(s),
		remaining: n,
	}
	wg.cond = kernel.NewCond(s)
	return wg
}

// Done decrements the remaining count and wakes Wait if it reaches zero.
func (wg *WaitGroup) Done() {
	_ = wg.lock.Acquire()
	wg.remaining--
	if wg.remaining <= 0 {
		_ = wg.cond.Broadcast(wg.lock)
	}
	_ = wg.lock.Release()
}

// Wait blocks the calling thread until the remaining count reaches zero.
func (wg *WaitGroup) Wait() {
	_ = wg.lock.Acquire()
	for wg.remaining > 0 {
		_ = wg.cond.Wait(wg.lock)
	}
	_ = wg.lock.Release()
}
