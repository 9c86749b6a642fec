//go:build kernel_debug

package kernel

// Debug assertions for the quantified invariants of spec §8. These are
// compiled in only with the "kernel_debug" build tag (see debugcheck_on.go /
// debugcheck_off.go), following the common embedded-Go pattern of compiling
// invariant checks out of production images: a production board build pays
// nothing for them, while a test run built with "-tags kernel_debug" makes
// a violated invariant fail loudly via Fatalf rather than silently
// corrupting scheduler state. A plain "go test" does not set the tag and
// uses the no-op versions.
//
// Every function here assumes the scheduler lock is already held by the
// caller; they only ever read state, never mutate it.

// debugCheckBitmapInvariant verifies spec §8 invariant 2: the run-queue
// bitmap bit for priority p is set iff priority p's CList queue is
// non-empty.
func debugCheckBitmapInvariant(s *Scheduler) {
	for p := 0; p < s.rq.nQueues; p++ {
		bitSet := s.rq.bitmap&(1<<uint(p)) != 0
		queueEmpty := s.rq.queues.empty(p)
		if bitSet == queueEmpty {
			Fatalf(InvariantViolation, "runqueue: bitmap bit %d (set=%v) disagrees with queue emptiness (empty=%v)", p, bitSet, queueEmpty)
		}
	}
}

// debugCheckCurrentNotInRunqueue verifies spec §8 invariant 5: a thread
// dispatched on some core never simultaneously appears in the run-queue.
func debugCheckCurrentNotInRunqueue(s *Scheduler) {
	for core, tid := range s.current {
		if tid == Sentinel {
			continue
		}
		if s.rq.queues.inList(tid) {
			Fatalf(InvariantViolation, "thread %d is current on core %d and also present in the runqueue", tid, core)
		}
	}
}

// debugCheckNoDoubleOccupancy verifies spec §8 invariant 1's uniqueness
// half: no two cores report the same thread as current, and no thread is
// current on one core while simultaneously chained into a blocking wait
// list (blockedOn != Sentinel).
func debugCheckNoDoubleOccupancy(s *Scheduler) {
	seen := make(map[ThreadID]int, len(s.current))
	for core, tid := range s.current {
		if tid == Sentinel {
			continue
		}
		if other, dup := seen[tid]; dup {
			Fatalf(InvariantViolation, "thread %d is current on both core %d and core %d", tid, other, core)
		}
		seen[tid] = core
		if s.tcbs[tid].blockedOn != Sentinel {
			Fatalf(InvariantViolation, "thread %d is current on core %d and also chained into a wait list", tid, core)
		}
	}
}

// debugCheckLockInvariant verifies spec §8 invariant 3: while l is locked,
// the owner's live priority is at least the max of its waiters' priorities
// and its own recorded original priority.
func debugCheckLockInvariant(l *Lock) {
	if l.owner == Sentinel {
		return
	}
	ownerPrio := l.s.tcbs[l.owner].priority
	if ownerPrio < l.ownerOriginalPriority {
		Fatalf(InvariantViolation, "lock: owner %d live priority %d below its original priority %d", l.owner, ownerPrio, l.ownerOriginalPriority)
	}
	for cur := l.waiters; cur != Sentinel; cur = l.s.tcbs[cur].blockedOn {
		if waiterPrio := l.s.tcbs[cur].priority; waiterPrio > ownerPrio {
			Fatalf(InvariantViolation, "lock: waiter %d priority %d exceeds owner %d live priority %d", cur, waiterPrio, l.owner, ownerPrio)
		}
	}
}

// debugCheckChannelInvariant verifies spec §8 invariant 4: a channel never
// has both a waiting sender and a waiting receiver at once.
func debugCheckChannelInvariant[T any](c *Channel[T]) {
	if !c.senders.empty() && !c.receivers.empty() {
		Fatalf(InvariantViolation, "channel: senders and receivers both non-empty")
	}
}
