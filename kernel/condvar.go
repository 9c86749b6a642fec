package kernel

import "github.com/fxsched/kernel/arch"

// Condvar is the condition variable of spec §4.9: wait atomically releases
// a bound Lock and blocks, re-acquiring it before returning. No spurious
// wake-ups are produced (a thread only leaves the waiters list via an
// explicit NotifyOne/NotifyAll).
type Condvar struct {
	s       *Scheduler
	waiters fifoWait
}

// NewCondvar constructs an empty condition variable bound to s.
func NewCondvar(s *Scheduler) *Condvar {
	return &Condvar{s: s, waiters: newFifoWait()}
}

// Wait releases lock (which self must currently hold) and blocks as
// CondVarBlocked, re-acquiring lock before returning.
func (cv *Condvar) Wait(self ThreadID, lock *Lock) {
	cv.s.lock.with(func() {
		cv.s.tcbs[self].state = CondVarBlocked
		cv.waiters.push(cv.s, self)
		lock.releaseLocked(self)
	})
	arch.Yield(cv.s.archCtxOf(self))
	lock.Acquire(self)
}

// NotifyOne wakes the single longest-waiting thread, if any (spec §4.9
// notify_one).
func (cv *Condvar) NotifyOne() {
	cv.s.lock.with(func() {
		tid := cv.waiters.pop(cv.s)
		if tid == Sentinel {
			return
		}
		cv.s.wakeLocked(tid)
	})
}

// NotifyAll wakes every waiting thread (spec §4.9 notify_all).
func (cv *Condvar) NotifyAll() {
	cv.s.lock.with(func() {
		for {
			tid := cv.waiters.pop(cv.s)
			if tid == Sentinel {
				break
			}
			cv.s.wakeLocked(tid)
		}
	})
}
