package kernel

import "github.com/fxsched/kernel/arch"

// Channel is the synchronous, unbuffered rendez-vous channel of spec §4.7.
// Unlike the original's raw stack-pointer payload (sound only because its
// host language has no garbage collector — spec §9 "self-referential
// blocked-state payload"), Go already guarantees a parked goroutine's local
// variables stay alive and stable, so the pending value is simply the
// address of a local on the blocked caller's own stack, tracked here via a
// small per-thread map instead of a tagged raw pointer.
type Channel[T any] struct {
	s         *Scheduler
	senders   fifoWait
	receivers fifoWait
	payload   map[ThreadID]*T
}

// NewChannel constructs an empty (Idle) channel bound to s.
func NewChannel[T any](s *Scheduler) *Channel[T] {
	return &Channel[T]{
		s:         s,
		senders:   newFifoWait(),
		receivers: newFifoWait(),
		payload:   make(map[ThreadID]*T),
	}
}

// Send implements spec §4.7 send: delivers directly to a waiting receiver
// if one exists, otherwise blocks as ChannelTxBlocked until one arrives.
func (c *Channel[T]) Send(self ThreadID, v T) {
	var block bool
	c.s.lock.with(func() {
		if !c.receivers.empty() {
			rid := c.receivers.pop(c.s)
			*c.payload[rid] = v
			delete(c.payload, rid)
			c.s.wakeLocked(rid)
			return
		}
		c.payload[self] = &v
		c.s.tcbs[self].state = ChannelTxBlocked
		c.senders.push(c.s, self)
		block = true
		debugCheckChannelInvariant(c)
	})
	if block {
		arch.Yield(c.s.archCtxOf(self))
	}
}

// TrySend implements spec §4.7 try_send: never blocks.
func (c *Channel[T]) TrySend(self ThreadID, v T) bool {
	var ok bool
	c.s.lock.with(func() {
		if c.receivers.empty() {
			return
		}
		rid := c.receivers.pop(c.s)
		*c.payload[rid] = v
		delete(c.payload, rid)
		c.s.wakeLocked(rid)
		ok = true
	})
	return ok
}

// Recv implements spec §4.7 recv: consumes a waiting sender's value if one
// exists, otherwise blocks as ChannelRxBlocked until a sender arrives and
// copies directly into dst.
func (c *Channel[T]) Recv(self ThreadID) T {
	var block bool
	var result, dst T
	c.s.lock.with(func() {
		if !c.senders.empty() {
			sid := c.senders.pop(c.s)
			result = *c.payload[sid]
			delete(c.payload, sid)
			c.s.wakeLocked(sid)
			return
		}
		c.payload[self] = &dst
		c.s.tcbs[self].state = ChannelRxBlocked
		c.receivers.push(c.s, self)
		block = true
		debugCheckChannelInvariant(c)
	})
	if block {
		arch.Yield(c.s.archCtxOf(self))
		result = dst
	}
	return result
}

// TryRecv implements spec §4.7 try_recv: never blocks.
func (c *Channel[T]) TryRecv(self ThreadID) (T, bool) {
	var v T
	var ok bool
	c.s.lock.with(func() {
		if c.senders.empty() {
			return
		}
		sid := c.senders.pop(c.s)
		v = *c.payload[sid]
		delete(c.payload, sid)
		c.s.wakeLocked(sid)
		ok = true
	})
	return v, ok
}
