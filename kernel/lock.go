package kernel

import "github.com/fxsched/kernel/multicore"

// schedulerLock composes "no local preemption" with "multicore spinlock"
// exactly as spec §9 specifies: critical_section_with(f) =
// no_preemption_with(|| multicore_lock_with(f)). On a single-core build the
// spinlock is a no-op (kernel/multicore's default backend), so this
// degrades to "just disable local preemption", matching the spec's note.
//
// Go has no portable notion of "locally mask interrupts" for a goroutine, so
// no_preemption_with is a pass-through here; it's kept as an explicit call
// so the composition mirrors the spec precisely and so a future host-side
// instrumentation hook (e.g. tracking time spent with the scheduler lock
// held) has somewhere to live.
type schedulerLock struct {
	spin multicore.Spinlock
}

func newSchedulerLock(spin multicore.Spinlock) *schedulerLock {
	return &schedulerLock{spin: spin}
}

// with runs f under the full scheduler lock discipline. Per spec §5, no
// synchronization primitive other than the multicore spinlock itself may be
// entered while this lock is held — f must be limited to pure scheduler
// state mutation.
func (l *schedulerLock) with(f func()) {
	noPreemptionWith(func() {
		l.spin.Lock()
		defer l.spin.Unlock()
		f()
	})
}

// noPreemptionWith models §4.10's no_preemption_with: disabling local
// interrupts around f. There is nothing to disable in a goroutine-based
// simulation, so this is a direct call — present for fidelity with the
// spec's composition, and as the seam a future host build could use to
// assert no other goroutine re-enters the scheduler unexpectedly.
func noPreemptionWith(f func()) {
	f()
}
