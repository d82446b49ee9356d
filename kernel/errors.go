package kernel

import "errors"

// ErrNoThreadSlots is returned by [Scheduler.Create] when MaxThreads live
// threads already exist, standing in for the fixed-size page-allocated
// thread table of the original kernel.
var ErrNoThreadSlots = errors.New("kernel: no free thread slots")

// ErrInvalidPriority is returned when a requested base priority falls
// outside [PriMin, PriMax].
var ErrInvalidPriority = errors.New("kernel: priority out of range")

// ErrInvalidNice is returned when a requested nice value falls outside
// [NiceMin, NiceMax].
var ErrInvalidNice = errors.New("kernel: nice value out of range")

// ErrLockAlreadyHeld is returned by [Lock.Acquire] and [Lock.TryAcquire]
// when the calling thread already holds the lock. Locks in this package are
// not recursive.
var ErrLockAlreadyHeld = errors.New("kernel: lock already held by current thread")

// ErrLockNotHeld is returned by [Lock.Release] and [Cond.Wait] when the
// calling thread does not hold the lock it is operating on.
var ErrLockNotHeld = errors.New("kernel: lock not held by current thread")
