package kernel

import (
	"github.com/joeycumines/kerncore/fixedpoint"
	"github.com/joeycumines/kerncore/list"
)

// ThreadID uniquely identifies a thread for the lifetime of a [Scheduler].
// IDs are never reused.
type ThreadID uint64

// Status is a thread's scheduling state.
type Status int

const (
	StatusBlocked Status = iota
	StatusReady
	StatusRunning
	StatusDying
)

func (s Status) String() string {
	switch s {
	case StatusBlocked:
		return "blocked"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusDying:
		return "dying"
	default:
		return "unknown"
	}
}

// threadMagic is written into every Thread at creation and checked each
// time a thread is unblocked, before it can be linked into a ready queue
// and silently corrupt scheduler state. It plays the same role as the
// canary the original kernel
// stores at the bottom of a thread's kernel stack to detect overflow; there
// is no stack to overflow here, so this instead just catches use of a
// Thread value that was never constructed through the scheduler.
const threadMagic = 0xcd6abf4b

// Thread is one schedulable unit of execution. A Thread is always backed by
// exactly one goroutine, created by [Scheduler.Create] and torn down by
// [Scheduler.Exit]; there is no public constructor.
type Thread struct {
	magic uint32

	id   ThreadID
	name string

	// status and every field below is only ever read or written while
	// holding the owning Scheduler's mu — see doc.go.
	status Status

	basePriority      int
	effectivePriority int

	// heldLocks is every Lock currently owned by this thread, used to
	// recompute effectivePriority when a donation is released.
	heldLocks []*Lock

	// blockedOnLock is the Lock this thread is waiting to acquire, or nil.
	// Walking blockedOnLock chains is how priority donation propagates
	// through a chain of threads each waiting on the next.
	blockedOnLock *Lock

	// nice and recentCPU are only meaningful under PolicyMLFQS.
	nice      int
	recentCPU fixedpoint.Fixed

	// sliceTicks counts timer ticks since this thread was last scheduled
	// in, used to request preemption once it reaches the scheduler's
	// TimeSlice.
	sliceTicks int

	// resume is the baton: exactly one send/receive pair moves control of
	// the single simulated CPU from one thread's goroutine to another.
	// Capacity 1 so a scheduler decision can hand off the baton without
	// blocking on the receiver having already parked.
	resume chan struct{}

	// allElem links this thread into the scheduler's all-threads list.
	allElem *list.Elem[*Thread]

	// queueElem links this thread into at most one of: a ready queue or a
	// semaphore's waiter list (a thread waiting on a Cond sits in the
	// waiter list of that wait's private semaphore). It is
	// unlinked whenever the thread is running or (for the idle thread
	// only) blocked with nothing to wait on.
	queueElem *list.Elem[*Thread]
}

// ID returns the thread's unique identifier.
func (t *Thread) ID() ThreadID { return t.id }

// Name returns the thread's name, as given to [Scheduler.Create].
func (t *Thread) Name() string { return t.name }

// Status returns the thread's current scheduling state. Safe to call from
// any goroutine, but the result may be stale the instant it's returned
// unless the caller is the thread in question.
func (t *Thread) Status() Status { return t.status }

// recomputeEffectiveLocked recalculates effectivePriority as the maximum of
// basePriority and every donation currently received through heldLocks,
// mirroring recalc_cached_thread_priority in the original kernel. Must be
// called with the scheduler's mu held.
func (t *Thread) recomputeEffectiveLocked() {
	eff := t.basePriority
	for _, l := range t.heldLocks {
		if lp := l.cachedPriorityLocked(); lp > eff {
			eff = lp
		}
	}
	t.effectivePriority = eff
}

func lessEffectivePriority(a, b *Thread) bool {
	return a.effectivePriority < b.effectivePriority
}
