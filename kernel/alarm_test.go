package kernel_test

import (
	"testing"

	"github.com/joeycumines/kerncore/kernel"
	"github.com/joeycumines/kerncore/kernel/kerncoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleepDoesNotWakeEarly(t *testing.T) {
	s, m := newTestScheduler(t, kernel.PolicyDonation)
	var woke bool
	done := kerncoretest.NewWaitGroup(s, 1)

	_, err := s.Create("sleeper", kernel.PriDefault, func(s *kernel.Scheduler, arg any) {
		s.Clock().Sleep(10)
		woke = true
		done.Done()
	}, nil)
	require.NoError(t, err)

	// Yield once so the sleeper actually registers its alarm before ticks
	// start advancing; both it and main share PriDefault, and the sleeper
	// was enqueued first, so it runs first.
	s.Yield()

	m.AdvanceTicks(9)
	assert.False(t, woke, "must not wake before its deadline")

	m.AdvanceTicks(1)
	done.Wait()
	assert.True(t, woke)
}

func TestSleepNonPositiveReturnsImmediately(t *testing.T) {
	s, _ := newTestScheduler(t, kernel.PolicyDonation)
	s.Clock().Sleep(0)
	s.Clock().Sleep(-5)
}

// TestSleepOrdersByWakeTick reproduces alarm_wake/timer_sleep's core
// guarantee: threads sleeping for different durations wake in deadline
// order, not creation order. A background tick driver advances the
// simulated clock concurrently so that each thread's Sleep call actually
// registers before the deadlines it's racing against arrive.
func TestSleepOrdersByWakeTick(t *testing.T) {
	s, m := newTestScheduler(t, kernel.PolicyDonation)
	driver := kerncoretest.NewTickDriver(m)
	defer driver.Stop()

	var order []string
	orderLock := kernel.NewLock(s)
	record := func(name string) {
		_ = orderLock.Acquire()
		order = append(order, name)
		_ = orderLock.Release()
	}
	done := kerncoretest.NewWaitGroup(s, 3)

	spawn := func(name string, ticks int64) {
		_, err := s.Create(name, kernel.PriDefault, func(s *kernel.Scheduler, arg any) {
			s.Clock().Sleep(ticks)
			record(name)
			done.Done()
		}, nil)
		require.NoError(t, err)
	}
	spawn("long", 60)
	spawn("short", 20)
	spawn("medium", 40)

	done.Wait()
	assert.Equal(t, []string{"short", "medium", "long"}, order)
}

func TestMSleepConvertsToTicks(t *testing.T) {
	s, m := newTestScheduler(t, kernel.PolicyDonation)
	done := kerncoretest.NewWaitGroup(s, 1)

	_, err := s.Create("sleeper", kernel.PriDefault, func(s *kernel.Scheduler, arg any) {
		s.Clock().MSleep(100) // 10 ticks at the default 100Hz timer
		done.Done()
	}, nil)
	require.NoError(t, err)

	s.Yield()
	m.AdvanceTicks(kernel.DefaultTimerFreq)
	done.Wait()
}
