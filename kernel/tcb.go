package kernel

import "fmt"

// ThreadID identifies a thread slot in the TCB table (spec §3). Values in
// [0, cap) are potentially valid; Sentinel (0xFF) marks "no thread" both in
// CList linkage and in any field that optionally names a thread.
type ThreadID uint8

// Sentinel is the CList/TCB "absent" marker. N_THREADS must stay below 255
// (spec §3) so Sentinel can never collide with a real slot index.
const Sentinel ThreadID = 0xFF

// Valid reports whether id is in-range for a table of the given capacity.
func (id ThreadID) Valid(capacity int) bool {
	return id != Sentinel && int(id) < capacity
}

// State is the thread lifecycle sum type of spec §4.3. The zero value,
// Invalid, is deliberately the "free slot" marker so a zeroed TCB table
// starts fully empty.
type State uint8

const (
	// Invalid marks a free TCB slot. Entered only from Running (via
	// cleanup) or as the initial state of every slot.
	Invalid State = iota
	// Running means runnable or currently running.
	Running
	// Parked means suspended by an explicit Park call.
	Parked
	// LockBlocked means waiting on a Lock or Mutex.
	LockBlocked
	// FlagBlockedAny means waiting on ThreadFlags with Any semantics.
	FlagBlockedAny
	// FlagBlockedAll means waiting on ThreadFlags with All semantics.
	FlagBlockedAll
	// ChannelTxBlocked means blocked in Channel.Send with no receiver.
	ChannelTxBlocked
	// ChannelRxBlocked means blocked in Channel.Recv with no sender.
	ChannelRxBlocked
	// CondVarBlocked means waiting inside Condvar.Wait.
	CondVarBlocked
)

func (s State) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case Running:
		return "Running"
	case Parked:
		return "Parked"
	case LockBlocked:
		return "LockBlocked"
	case FlagBlockedAny:
		return "FlagBlockedAny"
	case FlagBlockedAll:
		return "FlagBlockedAll"
	case ChannelTxBlocked:
		return "ChannelTxBlocked"
	case ChannelRxBlocked:
		return "ChannelRxBlocked"
	case CondVarBlocked:
		return "CondVarBlocked"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Blocked reports whether s is one of the blocking states (anything other
// than Invalid or Running).
func (s State) Blocked() bool {
	return s != Invalid && s != Running
}

// Affinity is a per-core bitmask restricting which cores may run a thread.
// Bit i set means "may run on core i". A nil *Affinity (the common case,
// core-affinity feature disabled) means "any core".
type Affinity uint32

// Allows reports whether the mask permits running on the given core.
func (a Affinity) Allows(core int) bool {
	return a&(1<<uint(core)) != 0
}

// tcb is the fixed per-thread record of spec §3. It is never referenced
// directly outside this package; the scheduler is the sole authority on
// thread identity and lifetime (spec's Ownership section).
type tcb struct {
	id       ThreadID
	priority uint8 // live priority; may be temporarily raised by inheritance
	basePrio uint8 // priority last set explicitly via Create/SetPriority

	state State

	flags    uint16 // thread-flags word (spec §4.8)
	waitMask uint16 // mask passed to wait_any/wait_all/wait_one while blocked

	// blockedOn chains this thread into whatever wait list currently holds
	// it (a Lock's waiters, a Channel's sender/receiver list, a Condvar's
	// waiters...). Sentinel means "not chained".
	blockedOn ThreadID

	hasAffinity bool
	affinity    Affinity

	// inherited records whether priority is currently raised above basePrio
	// by priority inheritance (spec §4.5); used by Lock.release to restore
	// the priority the owner had when it acquired the lock precisely once,
	// even under repeated promotions.
	inherited bool

	// archCtx is the opaque payload the Architecture Trampoline (kernel/arch)
	// associates with the thread: a saved stack pointer on real hardware, a
	// goroutine handoff token under the sim backend. The scheduler never
	// interprets it.
	archCtx any

	// cleanupFn is installed by Create as the thread's fake return address;
	// the arch backend calls it when the thread function returns normally.
	cleanupFn func()
}

func (t *tcb) reset() {
	*t = tcb{id: t.id, blockedOn: Sentinel}
}
