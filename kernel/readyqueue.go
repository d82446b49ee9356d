package kernel

import "github.com/joeycumines/kerncore/list"

// readyQueue holds every StatusReady thread and decides which one runs
// next. The two scheduling policies need different selection rules, so the
// scheduler is written against this interface rather than a concrete queue
// type; see [newReadyDonation] and [newReadyMLFQS].
type readyQueue interface {
	// push adds t, which must already be marked StatusReady.
	push(t *Thread)
	// pop removes and returns the thread that should run next, falling
	// back to the idle thread if nothing is ready.
	pop() *Thread
	// peekMax returns the effective priority of the highest-priority
	// ready thread, or -1 if none are ready. It must not mutate the
	// queue.
	peekMax() int
	// len returns the number of threads currently ready (excluding idle).
	len() int
	// setIdle registers the fallback thread returned by pop when the
	// queue is otherwise empty. The idle thread is never pushed.
	setIdle(t *Thread)
	// reinsert re-homes a thread already sitting in the queue after its
	// priority changed (MLFQS only), so that queue structures bucketed by
	// priority stay consistent. A queue that doesn't bucket by priority
	// may implement this as a no-op.
	reinsert(t *Thread)
}

// readyDonation is the PolicyDonation ready queue: a single list scanned by
// [list.List.MaxBy] to find the strictly-highest effective priority, with
// ties broken in favor of the earlier-inserted thread (FIFO among equals),
// matching list_max over less_thread_effective_priority in the original
// kernel.
type readyDonation struct {
	threads list.List[*Thread]
	idle    *Thread
}

func newReadyDonation() *readyDonation {
	q := &readyDonation{}
	q.threads.Init()
	return q
}

func (q *readyDonation) setIdle(t *Thread) { q.idle = t }

func (q *readyDonation) push(t *Thread) {
	q.threads.PushBack(t.queueElem)
}

func (q *readyDonation) pop() *Thread {
	if q.threads.Empty() {
		return q.idle
	}
	v, _ := q.threads.MaxBy(lessEffectivePriority)
	q.threads.Remove(v.queueElem)
	return v
}

func (q *readyDonation) peekMax() int {
	v, ok := q.threads.MaxBy(lessEffectivePriority)
	if !ok {
		return -1
	}
	return v.effectivePriority
}

func (q *readyDonation) len() int { return q.threads.Len() }

func (q *readyDonation) reinsert(t *Thread) {
	// A single MaxBy-scanned list has no per-priority bucket to move
	// between; a priority change is already reflected the next time the
	// list is scanned.
}

// readyMLFQS is the PolicyMLFQS ready queue. The original kernel buckets
// threads into PriMax-PriMin+1 separate per-priority lists for O(1)
// selection; this keeps a single list and the same MaxBy scan as
// readyDonation, which is asymptotically worse but behaviorally identical
// and considerably simpler — MLFQS priority only ever changes at well-known
// recomputation points (see mlfqs.go), never while a thread sits in this
// queue mid-scan.
type readyMLFQS struct {
	threads list.List[*Thread]
	idle    *Thread
}

func newReadyMLFQS() *readyMLFQS {
	q := &readyMLFQS{}
	q.threads.Init()
	return q
}

func (q *readyMLFQS) setIdle(t *Thread) { q.idle = t }

func (q *readyMLFQS) push(t *Thread) {
	q.threads.PushBack(t.queueElem)
}

func (q *readyMLFQS) pop() *Thread {
	if q.threads.Empty() {
		return q.idle
	}
	v, _ := q.threads.MaxBy(lessEffectivePriority)
	q.threads.Remove(v.queueElem)
	return v
}

func (q *readyMLFQS) peekMax() int {
	v, ok := q.threads.MaxBy(lessEffectivePriority)
	if !ok {
		return -1
	}
	return v.effectivePriority
}

func (q *readyMLFQS) len() int { return q.threads.Len() }

func (q *readyMLFQS) reinsert(t *Thread) {
	q.threads.Remove(t.queueElem)
	q.threads.PushBack(t.queueElem)
}
