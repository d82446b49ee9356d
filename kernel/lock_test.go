package kernel_test

import (
	"testing"

	"github.com/joeycumines/kerncore/kernel"
	"github.com/joeycumines/kerncore/kernel/kerncoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockTryAcquire(t *testing.T) {
	s, _ := newTestScheduler(t, kernel.PolicyDonation)
	lock := kernel.NewLock(s)

	ok, err := lock.TryAcquire()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, lock.HeldByCurrent())

	ok, err = lock.TryAcquire()
	assert.ErrorIs(t, err, kernel.ErrLockAlreadyHeld)
	assert.False(t, ok)

	require.NoError(t, lock.Release())
	assert.False(t, lock.HeldByCurrent())
}

func TestLockAcquireRejectsRecursion(t *testing.T) {
	s, _ := newTestScheduler(t, kernel.PolicyDonation)
	lock := kernel.NewLock(s)
	require.NoError(t, lock.Acquire())
	assert.ErrorIs(t, lock.Acquire(), kernel.ErrLockAlreadyHeld)
}

func TestLockReleaseRejectsNonHolder(t *testing.T) {
	s, _ := newTestScheduler(t, kernel.PolicyDonation)
	lock := kernel.NewLock(s)
	assert.ErrorIs(t, lock.Release(), kernel.ErrLockNotHeld)
}

// TestPriorityDonationChain reproduces the classic three-thread donation
// scenario: low holds a lock that medium is blocked on, medium holds a
// second lock that high is blocked on. Without donation, medium (which
// doesn't even want the first lock) would run ahead of low indefinitely,
// starving high's dependency. With donation, low should inherit high's
// priority transitively through medium.
func TestPriorityDonationChain(t *testing.T) {
	s, _ := newTestScheduler(t, kernel.PolicyDonation)

	lockA := kernel.NewLock(s) // held by low, wanted by medium
	lockB := kernel.NewLock(s) // held by medium, wanted by high

	var order []string
	orderLock := kernel.NewLock(s)
	record := func(name string) {
		_ = orderLock.Acquire()
		order = append(order, name)
		_ = orderLock.Release()
	}

	ready := kerncoretest.NewWaitGroup(s, 2) // medium + high have both blocked
	done := kerncoretest.NewWaitGroup(s, 3)

	const (
		priLow    = kernel.PriDefault
		priMedium = kernel.PriDefault + 5
		priHigh   = kernel.PriDefault + 10
	)

	_, err := s.Create("low", priLow, func(s *kernel.Scheduler, arg any) {
		require.NoError(t, lockA.Acquire())
		ready.Wait()
		// By now, low's effective priority should have been boosted to
		// priHigh via the A<-medium<-B<-high donation chain.
		assert.Equal(t, priHigh, s.GetPriority())
		record("low")
		require.NoError(t, lockA.Release())
		done.Done()
	}, nil)
	require.NoError(t, err)
	// Force low to run to completion of lockA.Acquire (and park inside
	// ready.Wait) before medium and high are even created, so the chain
	// below deterministically finds lockA already held.
	s.Yield()

	_, err = s.Create("medium", priMedium, func(s *kernel.Scheduler, arg any) {
		require.NoError(t, lockB.Acquire())
		ready.Done()
		require.NoError(t, lockA.Acquire()) // blocks on low, donates priMedium
		record("medium")
		require.NoError(t, lockA.Release())
		require.NoError(t, lockB.Release())
		done.Done()
	}, nil)
	require.NoError(t, err)

	_, err = s.Create("high", priHigh, func(s *kernel.Scheduler, arg any) {
		ready.Done()
		require.NoError(t, lockB.Acquire()) // blocks on medium, donates priHigh
		record("high")
		require.NoError(t, lockB.Release())
		done.Done()
	}, nil)
	require.NoError(t, err)

	done.Wait()
	require.Len(t, order, 3)
	assert.Equal(t, "low", order[0], "low must run (and release lockA) first despite its own low base priority")
	assert.Equal(t, "medium", order[1])
	assert.Equal(t, "high", order[2])
}
