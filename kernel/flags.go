package kernel

import "github.com/fxsched/kernel/arch"

// Thread-flags (spec §4.8). Unlike Lock/Channel/Condvar, this primitive has
// no identity of its own: the flag word lives directly in each thread's
// TCB, so these are Scheduler methods rather than a standalone type.

// SetFlags ORs mask into tid's flag word (spec §4.8 set) and wakes it if
// it is currently blocked in a wait whose condition mask is now satisfied.
func (s *Scheduler) SetFlags(tid ThreadID, mask uint16) error {
	if !tid.Valid(len(s.tcbs)) {
		return ErrInvalidThreadID
	}
	s.lock.with(func() {
		t := &s.tcbs[tid]
		if t.state == Invalid {
			return
		}
		t.flags |= mask
		switch t.state {
		case FlagBlockedAny:
			if t.flags&t.waitMask != 0 {
				s.wakeLocked(tid)
			}
		case FlagBlockedAll:
			if t.flags&t.waitMask == t.waitMask {
				s.wakeLocked(tid)
			}
		}
	})
	return nil
}

// WaitAny blocks self until at least one bit in mask is set, then clears
// and returns the full intersection (spec §4.8 wait_any).
func (s *Scheduler) WaitAny(self ThreadID, mask uint16) uint16 {
	return s.waitFlags(self, mask, false)
}

// WaitAll blocks self until every bit in mask is set, then clears and
// returns mask (spec §4.8 wait_all).
func (s *Scheduler) WaitAll(self ThreadID, mask uint16) uint16 {
	return s.waitFlags(self, mask, true)
}

func (s *Scheduler) waitFlags(self ThreadID, mask uint16, all bool) uint16 {
	var block bool
	var result uint16
	s.lock.with(func() {
		t := &s.tcbs[self]
		if satisfied(t.flags, mask, all) {
			result = clearMatched(t, mask, all)
			return
		}
		t.waitMask = mask
		if all {
			t.state = FlagBlockedAll
		} else {
			t.state = FlagBlockedAny
		}
		block = true
	})
	if block {
		arch.Yield(s.archCtxOf(self))
		s.lock.with(func() {
			t := &s.tcbs[self]
			result = clearMatched(t, mask, all)
		})
	}
	return result
}

// WaitOne blocks self until at least one bit in mask is set, then clears
// and returns exactly the lowest set bit within the intersection (spec
// §4.8 wait_one).
func (s *Scheduler) WaitOne(self ThreadID, mask uint16) uint16 {
	var block bool
	var result uint16
	s.lock.with(func() {
		t := &s.tcbs[self]
		if t.flags&mask != 0 {
			result = lowestBit(t.flags & mask)
			t.flags &^= result
			return
		}
		t.waitMask = mask
		t.state = FlagBlockedAny
		block = true
	})
	if block {
		arch.Yield(s.archCtxOf(self))
		s.lock.with(func() {
			t := &s.tcbs[self]
			result = lowestBit(t.flags & mask)
			t.flags &^= result
		})
	}
	return result
}

func satisfied(flags, mask uint16, all bool) bool {
	if all {
		return flags&mask == mask
	}
	return flags&mask != 0
}

func clearMatched(t *tcb, mask uint16, all bool) uint16 {
	var result uint16
	if all {
		result = mask
	} else {
		result = t.flags & mask
	}
	t.flags &^= result
	return result
}

func lowestBit(x uint16) uint16 { return x & (-x) }
