package kernel

import (
	"github.com/fxsched/kernel/arch"
	"github.com/fxsched/kernel/klog"
	"github.com/fxsched/kernel/multicore"
)

// entryFunc is the Go-idiomatic shape of a thread body (spec §6 "Thread
// function signatures"). Real hardware reads "current thread" out of a
// per-core global the trampoline maintains; a goroutine has no such slot, so
// every entry point is handed its own identity directly instead of calling
// a current_tid() with no argument. self is exactly what current_tid()
// would return while the thread is actually executing.
type entryFunc func(self ThreadID, arg uintptr)

// Scheduler is the Scheduler State of spec §4.3: the runqueue, the TCB
// table, per-core current-thread tracking, and the scheduler lock that
// serializes access to all of it. One Scheduler is the process-wide
// singleton described in spec §9 ("static global state with
// initialization"); callers construct exactly one via NewScheduler.
type Scheduler struct {
	cfg  Config
	lock *schedulerLock
	ipi  multicore.IPI

	tcbs []tcb
	rq   *runQueue

	// current[core] is the thread currently dispatched on that core, or
	// Sentinel. Guarded by lock.
	current []ThreadID

	// pending[core] records a coalesced reschedule request for that core
	// (spec §5: "reschedule requests are idempotent ... coalesce").
	// Consulted by Checkpoint on behalf of a thread that is still Running
	// but may no longer be the highest-priority candidate for its core.
	pending []bool

	isrActive bool
}

// NewScheduler constructs the scheduler singleton and its per-core idle
// threads (spec §4.4: "an idle thread ... occupies the core"). Cores start
// actually running once the caller spawns one goroutine per core via
// RunCore — construction alone performs no dispatch.
func NewScheduler(opts ...Option) *Scheduler {
	cfg := resolveConfig(opts)

	ipi, err := multicore.NewIPI(cfg.Cores, nil)
	if err != nil {
		Fatalf(InvariantViolation, "scheduler: %v", err)
	}

	s := &Scheduler{
		cfg:     cfg,
		lock:    newSchedulerLock(multicore.NewSpinlock()),
		ipi:     ipi,
		tcbs:    make([]tcb, cfg.ThreadCapacity),
		rq:      newRunQueue(cfg.PriorityLevels, cfg.ThreadCapacity),
		current: make([]ThreadID, cfg.Cores),
		pending: make([]bool, cfg.Cores),
	}
	for i := range s.tcbs {
		s.tcbs[i] = tcb{id: ThreadID(i), blockedOn: Sentinel}
	}
	for c := range s.current {
		s.current[c] = Sentinel
	}

	for core := 0; core < cfg.Cores; core++ {
		var affinity *Affinity
		if cfg.CoreAffinityEnabled {
			a := Affinity(1 << uint(core))
			affinity = &a
		}
		if _, err := s.createLocked(func(self ThreadID, arg uintptr) {
			s.idleLoop(self, int(arg))
		}, uintptr(core), nil, 0, affinity); err != nil {
			Fatalf(InvariantViolation, "scheduler: failed to create idle thread for core %d: %v", core, err)
		}
	}

	return s
}

// idleLoop is the body of the per-core idle thread (spec §4.4: priority 0,
// "wait for interrupt" loop). It blocks on the IPI backend with no
// runqueue presence beyond its own priority-0 slot, so it never busy-spins
// the host CPU: RunCore's Dispatch call only returns once something has
// actually changed.
func (s *Scheduler) idleLoop(self ThreadID, core int) {
	for {
		s.ipi.Wait(core)
		arch.Yield(s.archCtxOf(self))
	}
}

func (s *Scheduler) archCtxOf(tid ThreadID) arch.Context {
	return s.tcbs[tid].archCtx
}

// Create allocates a TCB slot, primes its execution context via the
// architecture trampoline, and marks it Running (spec §4.3 create; the
// public API table's create has no separate "start" call, so a newly
// created thread is immediately runnable). Returns ErrOutOfThreads if the
// table is full, ErrNotAllowedInISR if called while EnterISR/ExitISR marks
// ISR context active (spec §9 open question: "create from an ISR ...
// implementations should reject"), or ErrInvalidThreadID if affinity is
// given but the core-affinity feature is disabled.
func (s *Scheduler) Create(entry entryFunc, arg uintptr, stack []byte, prio uint8, affinity *Affinity) (ThreadID, error) {
	var tid ThreadID
	var err error
	s.lock.with(func() {
		if s.isrActive {
			err = ErrNotAllowedInISR
			return
		}
		tid, err = s.createLocked(entry, arg, stack, prio, affinity)
	})
	return tid, err
}

func (s *Scheduler) createLocked(entry entryFunc, arg uintptr, stack []byte, prio uint8, affinity *Affinity) (ThreadID, error) {
	if affinity != nil && !s.cfg.CoreAffinityEnabled {
		return Sentinel, ErrInvalidThreadID
	}
	idx := -1
	for i := range s.tcbs {
		if s.tcbs[i].state == Invalid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Sentinel, ErrOutOfThreads
	}
	t := &s.tcbs[idx]
	t.reset()
	t.priority = prio
	t.basePrio = prio
	if affinity != nil {
		t.hasAffinity = true
		t.affinity = *affinity
	}
	tid := ThreadID(idx)
	t.cleanupFn = func() { s.cleanup(tid) }
	t.archCtx = arch.SetupStack(stack, func(a uintptr) { entry(tid, a) }, arg, t.cleanupFn)
	t.state = Running
	s.rq.add(tid, int(t.priority))
	s.requestRescheduleAllLocked()
	return tid, nil
}

// cleanup is installed as every thread's fake return address (spec §4.3):
// reclaims the slot and requests a reschedule for whichever core was
// running it. Called by the arch backend itself right before the thread's
// goroutine parks for the last time, so it runs with no scheduler lock
// held by the caller.
func (s *Scheduler) cleanup(tid ThreadID) {
	s.lock.with(func() {
		s.tcbs[tid].state = Invalid
		s.tcbs[tid].reset()
		s.requestRescheduleAllLocked()
	})
}

// SetState performs the general state transition of spec §4.3. Most
// callers should prefer the narrower Park/Unpark/lock-primitive helpers;
// SetState is exposed for completeness and for tests exercising the
// transition matrix directly.
func (s *Scheduler) SetState(tid ThreadID, state State) error {
	if !tid.Valid(len(s.tcbs)) {
		return ErrInvalidThreadID
	}
	s.lock.with(func() {
		s.setStateLocked(tid, state)
	})
	return nil
}

func (s *Scheduler) setStateLocked(tid ThreadID, state State) {
	t := &s.tcbs[tid]
	if t.state == Invalid {
		return
	}
	old := t.state
	t.state = state
	if state == Running && old != Running {
		s.rq.add(tid, int(t.priority))
		s.requestRescheduleAllLocked()
	}
	// Leaving Running is handled by the caller (RunCore, or a blocking
	// primitive) which already knows whether tid is the dispatched thread
	// on some core (and thus absent from the runqueue) or needs explicit
	// removal; see blockLocked.
}

// blockLocked transitions the calling thread (which must currently be the
// thread dispatched on its own core, hence not runqueue-resident) into a
// blocking state and pushes it onto the head of the blockedOn-chained list
// at *waitHead. The sync primitives in this package do not call it: each
// sets the blocking state itself and links the thread into its own wait
// list (fifoWait, or Lock's priority-sorted waiters).
func (s *Scheduler) blockLocked(self ThreadID, state State, waitHead *ThreadID) {
	t := &s.tcbs[self]
	t.state = state
	t.blockedOn = *waitHead
	*waitHead = self
}

// wakeLocked transitions tid back to Running and reinserts it into the
// runqueue at its live priority; callers are responsible for first
// unlinking tid from whatever wait list held it.
func (s *Scheduler) wakeLocked(tid ThreadID) {
	t := &s.tcbs[tid]
	t.state = Running
	s.rq.add(tid, int(t.priority))
	s.requestRescheduleAllLocked()
}

// SetPriority implements spec §4.3 set_priority, including the reseat
// (delete-and-reinsert) behavior for a thread sitting in the runqueue and
// the no-op-on-unchanged-value boundary behavior of spec §8.
func (s *Scheduler) SetPriority(tid ThreadID, prio uint8) error {
	if !tid.Valid(len(s.tcbs)) {
		return ErrInvalidThreadID
	}
	s.lock.with(func() {
		t := &s.tcbs[tid]
		if t.state == Invalid {
			return
		}
		if t.basePrio == prio && t.priority == prio {
			return
		}
		old := t.priority
		t.basePrio = prio
		if !t.inherited {
			t.priority = prio
		}
		if t.priority == old || t.state != Running {
			return
		}
		if _, onCore := s.currentCoreOfLocked(tid); onCore {
			// Actively dispatched: nothing to reseat in the runqueue,
			// just make every core re-evaluate (a raise may make tid
			// preemptible from elsewhere; a lower may let others in).
			s.requestRescheduleAllLocked()
			return
		}
		// Sitting in the runqueue at its old priority bucket: reseat.
		s.rq.del(tid, int(old))
		s.rq.add(tid, int(t.priority))
		s.requestRescheduleAllLocked()
	})
	return nil
}

// GetPriority returns tid's live (possibly inherited) priority.
func (s *Scheduler) GetPriority(tid ThreadID) (uint8, error) {
	if !tid.Valid(len(s.tcbs)) {
		return 0, ErrInvalidThreadID
	}
	var p uint8
	s.lock.with(func() { p = s.tcbs[tid].priority })
	return p, nil
}

// Park suspends the calling thread (spec §6 park). self must be the thread
// currently dispatched on its own core — i.e. the caller is executing from
// within its own entry function.
func (s *Scheduler) Park(self ThreadID) error {
	if !self.Valid(len(s.tcbs)) {
		return ErrInvalidThreadID
	}
	s.lock.with(func() {
		s.tcbs[self].state = Parked
	})
	arch.Yield(s.archCtxOf(self))
	return nil
}

// Unpark implements spec §6 unpark: returns true iff tid was Parked.
func (s *Scheduler) Unpark(tid ThreadID) bool {
	if !tid.Valid(len(s.tcbs)) {
		return false
	}
	var ok bool
	s.lock.with(func() {
		if s.tcbs[tid].state != Parked {
			return
		}
		ok = true
		s.wakeLocked(tid)
	})
	return ok
}

// YieldSame implements spec §6 yield_same: surrenders the core to another
// runnable thread of the same priority, no-op if none. self stays Running
// throughout; RunCore's post-dispatch bookkeeping re-adds it to the tail of
// its priority queue once it parks here, which is exactly the rotation
// spec's Scenario F describes (self was absent from the runqueue while
// dispatched, so re-adding it after the other same-priority threads that
// never left is all "rotation" actually requires).
func (s *Scheduler) YieldSame(self ThreadID) {
	if !self.Valid(len(s.tcbs)) {
		return
	}
	arch.Yield(s.archCtxOf(self))
}

// Checkpoint gives a long-running thread body a chance to be preempted.
// Go cannot interrupt a running goroutine between arbitrary instructions
// the way a real trampoline's PendSV can; call sites that model a
// busy-loop stand in for that missing hardware capability by calling
// Checkpoint periodically (see DESIGN.md's cooperative-preemption
// design note). If a reschedule is pending for self's core, self is
// reinserted into the runqueue at its live priority and yields; otherwise
// this is a no-op.
func (s *Scheduler) Checkpoint(self ThreadID) {
	if !self.Valid(len(s.tcbs)) {
		return
	}
	var shouldYield bool
	s.lock.with(func() {
		core, onCore := s.currentCoreOfLocked(self)
		if !onCore || !s.pending[core] {
			return
		}
		s.pending[core] = false
		shouldYield = true
	})
	if shouldYield {
		arch.Yield(s.archCtxOf(self))
	}
}

// CurrentTID returns the thread dispatched on core, if any (spec §6
// current_tid, generalized with an explicit core argument since Go has no
// per-core global to read implicitly).
func (s *Scheduler) CurrentTID(core int) (ThreadID, bool) {
	var tid ThreadID
	s.lock.with(func() { tid = s.current[core] })
	return tid, tid != Sentinel
}

// CoreID returns the core self is currently dispatched on (spec §6
// core_id, generalized the same way as CurrentTID).
func (s *Scheduler) CoreID(self ThreadID) (int, bool) {
	var core int
	var ok bool
	s.lock.with(func() { core, ok = s.currentCoreOfLocked(self) })
	return core, ok
}

func (s *Scheduler) currentCoreOfLocked(tid ThreadID) (int, bool) {
	for c, cur := range s.current {
		if cur == tid {
			return c, true
		}
	}
	return -1, false
}

// EnterISR/ExitISR let a test harness bracket a simulated interrupt
// context, so Create's ISR rejection (spec §9 open question) is
// observable without a real interrupt controller.
func (s *Scheduler) EnterISR() { s.lock.with(func() { s.isrActive = true }) }
func (s *Scheduler) ExitISR()  { s.lock.with(func() { s.isrActive = false }) }

// requestRescheduleAllLocked marks every core's reschedule flag and wakes
// any core currently idling in its IPI backend's Wait. Called under lock;
// matches spec §4.10's schedule_on_core belt-and-braces note by simply
// always notifying every core rather than trying to compute precisely
// which cores are "eligible" — correctness-over-precision, since a spurious
// request here only costs an extra pass through RunCore's selection: an
// idle core wakes and re-picks, and a thread at Checkpoint yields and is
// re-queued at the tail of its priority.
func (s *Scheduler) requestRescheduleAllLocked() {
	debugCheckBitmapInvariant(s)
	for c := range s.pending {
		s.pending[c] = true
		s.ipi.Post(c)
	}
}

// pickNextLocked selects the next thread for core, honoring core affinity
// when the feature is enabled (spec §4.2 get_next_filter).
func (s *Scheduler) pickNextLocked(core int) (ThreadID, int) {
	if !s.cfg.CoreAffinityEnabled {
		return s.rq.getNext()
	}
	return s.rq.getNextFiltered(func(tid ThreadID) bool {
		t := &s.tcbs[tid]
		return !t.hasAffinity || t.affinity.Allows(core)
	})
}

// RunCore is a physical core's main loop: repeatedly pick the highest
// eligible runnable thread, dispatch it via the architecture trampoline,
// and reconcile runqueue membership once it stops running. Callers spawn
// one goroutine per configured core (after Scheduler.Boot, if used). This is the
// Go-level stand-in for spec §4.4's trampoline-driven sched loop: Dispatch
// blocks for exactly as long as the real hardware would spend executing
// the incoming thread.
func (s *Scheduler) RunCore(core int) {
	klog.Get().Log(klog.Event{Level: klog.LevelInfo, Category: "scheduler", Core: core, Message: "core started"})
	for {
		var tid ThreadID
		s.lock.with(func() {
			s.pending[core] = false
			next, prio := s.pickNextLocked(core)
			tid = next
			if tid != Sentinel {
				s.rq.del(tid, prio)
			}
			s.current[core] = tid
			debugCheckCurrentNotInRunqueue(s)
			debugCheckNoDoubleOccupancy(s)
		})
		if tid == Sentinel {
			// Should not happen once idle threads are installed; guard
			// against misconfiguration (e.g. affinity enabled with no
			// thread eligible for this core) by waiting for the next IPI
			// rather than spinning.
			s.ipi.Wait(core)
			continue
		}
		// cleanup resets the TCB (archCtx included) when a thread returns,
		// so keep the context Dispatch ran to ask Finished about it.
		ctx := s.archCtxOf(tid)
		arch.Dispatch(ctx)
		s.lock.with(func() {
			s.current[core] = Sentinel
			if !arch.Finished(ctx) && s.tcbs[tid].state == Running {
				s.rq.add(tid, int(s.tcbs[tid].priority))
			}
			debugCheckBitmapInvariant(s)
			debugCheckCurrentNotInRunqueue(s)
		})
	}
}

// ThreadCapacity returns the configured N_THREADS.
func (s *Scheduler) ThreadCapacity() int { return len(s.tcbs) }

// Cores returns the configured number of cores.
func (s *Scheduler) Cores() int { return s.cfg.Cores }
