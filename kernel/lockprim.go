package kernel

import "github.com/fxsched/kernel/arch"

// Lock is the priority-inheriting binary lock of spec §4.5. It is built
// entirely out of Scheduler primitives: the waiters list threads through
// the same tcb.blockedOn field fifoWait uses (the runqueue's CList keeps
// its own links), kept sorted highest-priority-first by insertion.
type Lock struct {
	s                     *Scheduler
	owner                 ThreadID
	ownerOriginalPriority uint8
	waiters               ThreadID // head of a priority-sorted (highest first) chain
}

// NewLock constructs an unlocked Lock bound to s.
func NewLock(s *Scheduler) *Lock {
	return &Lock{s: s, owner: Sentinel, waiters: Sentinel}
}

// Acquire implements spec §4.5 acquire, including re-entrant no-op for the
// current owner and priority inheritance for a contended lock.
func (l *Lock) Acquire(self ThreadID) {
	var block bool
	l.s.lock.with(func() {
		if l.owner == Sentinel {
			l.owner = self
			l.ownerOriginalPriority = l.s.tcbs[self].priority
			return
		}
		if l.owner == self {
			return
		}
		l.promoteOwnerLocked(self)
		l.insertWaiterLocked(self)
		l.s.tcbs[self].state = LockBlocked
		block = true
		debugCheckLockInvariant(l)
	})
	if block {
		arch.Yield(l.s.archCtxOf(self))
	}
}

// TryAcquire implements spec §4.5 try_acquire: never blocks, never raises
// the owner's priority.
func (l *Lock) TryAcquire(self ThreadID) bool {
	var ok bool
	l.s.lock.with(func() {
		if l.owner == Sentinel {
			l.owner = self
			l.ownerOriginalPriority = l.s.tcbs[self].priority
			ok = true
			return
		}
		ok = l.owner == self
	})
	return ok
}

// Release implements spec §4.5 release: silently does nothing if self is
// not the current owner.
func (l *Lock) Release(self ThreadID) {
	l.s.lock.with(func() { l.releaseLocked(self) })
}

// releaseLocked is the guts of Release, factored out so Condvar.Wait can
// release the bound lock atomically with enqueueing itself as a waiter,
// all under one acquisition of the scheduler lock.
func (l *Lock) releaseLocked(self ThreadID) {
	if l.owner != self {
		return
	}
	t := &l.s.tcbs[self]
	if t.inherited {
		t.priority = l.ownerOriginalPriority
		t.inherited = false
	}
	next := l.popHighestWaiterLocked()
	if next == Sentinel {
		l.owner = Sentinel
		return
	}
	l.owner = next
	l.ownerOriginalPriority = l.s.tcbs[next].priority
	l.s.wakeLocked(next)
	debugCheckLockInvariant(l)
}

// promoteOwnerLocked raises the owner's live priority to self's if self
// outranks it (spec §4.5, taking the stricter max(own_current, max_waiter)
// reading per the Open Question resolution recorded in DESIGN.md). The
// owner's runqueue bucket is reseated if it is sitting in the runqueue
// rather than actively dispatched.
func (l *Lock) promoteOwnerLocked(self ThreadID) {
	callerPrio := l.s.tcbs[self].priority
	ot := &l.s.tcbs[l.owner]
	if callerPrio <= ot.priority {
		return
	}
	oldPrio := ot.priority
	ot.priority = callerPrio
	ot.inherited = true
	if _, onCore := l.s.currentCoreOfLocked(l.owner); onCore {
		l.s.requestRescheduleAllLocked()
		return
	}
	if ot.state == Running {
		l.s.rq.del(l.owner, int(oldPrio))
		l.s.rq.add(l.owner, int(ot.priority))
	}
}

func (l *Lock) insertWaiterLocked(tid ThreadID) {
	prio := l.s.tcbs[tid].priority
	if l.waiters == Sentinel || l.s.tcbs[l.waiters].priority < prio {
		l.s.tcbs[tid].blockedOn = l.waiters
		l.waiters = tid
		return
	}
	cur := l.waiters
	for l.s.tcbs[cur].blockedOn != Sentinel && l.s.tcbs[l.s.tcbs[cur].blockedOn].priority >= prio {
		cur = l.s.tcbs[cur].blockedOn
	}
	l.s.tcbs[tid].blockedOn = l.s.tcbs[cur].blockedOn
	l.s.tcbs[cur].blockedOn = tid
}

func (l *Lock) popHighestWaiterLocked() ThreadID {
	tid := l.waiters
	if tid == Sentinel {
		return Sentinel
	}
	l.waiters = l.s.tcbs[tid].blockedOn
	l.s.tcbs[tid].blockedOn = Sentinel
	return tid
}
