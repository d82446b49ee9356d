package kernel

import (
	"sync"
	"time"
)

// Machine drives the scheduler's simulated timer interrupt, standing in
// for the 8254 PIT hardware the original kernel configures in
// timer_init(). A Machine is either free-running, ticking on a real
// [time.Ticker] at Config.TimerFreq Hz, or manually driven by test code
// via [Machine.AdvanceTicks] — never both.
type Machine struct {
	s *Scheduler

	mu      sync.Mutex
	ticker  *time.Ticker
	stopCh  chan struct{}
	stopped bool
}

// NewMachine returns a Machine bound to s, with no ticks yet being driven.
func NewMachine(s *Scheduler) *Machine {
	return &Machine{s: s}
}

// Run starts a background goroutine that delivers one timer tick every
// 1/TimerFreq seconds of wall-clock time, until Stop is called. Run must
// not be called while the Machine is already running or being manually
// driven.
func (m *Machine) Run() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ticker != nil {
		return
	}
	period := time.Second / time.Duration(m.s.cfg.TimerFreq)
	m.ticker = time.NewTicker(period)
	m.stopCh = make(chan struct{})
	ticker, stop := m.ticker, m.stopCh
	go func() {
		for {
			select {
			case <-ticker.C:
				m.s.tick()
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts a free-running Machine started with Run. It is a no-op if
// the Machine was never started.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ticker == nil || m.stopped {
		return
	}
	m.ticker.Stop()
	close(m.stopCh)
	m.stopped = true
}

// AdvanceTicks manually delivers n timer ticks, one at a time, for
// deterministic tests that don't want to depend on wall-clock timing. It
// must not be called concurrently with Run.
func (m *Machine) AdvanceTicks(n int) {
	for i := 0; i < n; i++ {
		m.s.tick()
	}
}
