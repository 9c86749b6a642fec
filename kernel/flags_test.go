package kernel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags_WaitAny_UnblocksOnFirstMatchingBit(t *testing.T) {
	s := NewScheduler(WithThreadCapacity(4), WithCores(1))
	done := make(chan struct{})
	var got uint16

	tid, err := s.Create(func(self ThreadID, _ uintptr) {
		got = s.WaitAny(self, 0b0110)
		close(done)
	}, 0, make([]byte, 64), 1, nil)
	require.NoError(t, err)

	go s.RunCore(0)

	waitFor(t, func() bool {
		var state State
		s.lock.with(func() { state = s.tcbs[tid].state })
		return state == FlagBlockedAny
	})
	require.NoError(t, s.SetFlags(tid, 0b0100))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitAny never unblocked")
	}
	assert.EqualValues(t, 0b0100, got)

	p, err := s.GetPriority(tid)
	require.NoError(t, err)
	_ = p
}

func TestFlags_WaitAll_BlocksUntilEveryBitSet(t *testing.T) {
	s := NewScheduler(WithThreadCapacity(4), WithCores(1))
	done := make(chan struct{})
	var got uint16

	tid, err := s.Create(func(self ThreadID, _ uintptr) {
		got = s.WaitAll(self, 0b0011)
		close(done)
	}, 0, make([]byte, 64), 1, nil)
	require.NoError(t, err)

	go s.RunCore(0)

	waitFor(t, func() bool {
		var state State
		s.lock.with(func() { state = s.tcbs[tid].state })
		return state == FlagBlockedAll
	})
	require.NoError(t, s.SetFlags(tid, 0b0001))

	select {
	case <-done:
		t.Fatal("WaitAll woke up before every bit was set")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, s.SetFlags(tid, 0b0010))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitAll never unblocked")
	}
	assert.EqualValues(t, 0b0011, got)
}

func TestFlags_WaitOne_ReturnsLowestSetBit(t *testing.T) {
	s := NewScheduler(WithThreadCapacity(4), WithCores(1))
	done := make(chan struct{})
	var got, remaining uint16

	tid, err := s.Create(func(self ThreadID, _ uintptr) {
		got = s.WaitOne(self, 0b1110)
		// Read before returning: cleanup resets the flag word on exit.
		s.lock.with(func() { remaining = s.tcbs[self].flags })
		close(done)
	}, 0, make([]byte, 64), 1, nil)
	require.NoError(t, err)

	go s.RunCore(0)

	waitFor(t, func() bool {
		var state State
		s.lock.with(func() { state = s.tcbs[tid].state })
		return state == FlagBlockedAny
	})
	require.NoError(t, s.SetFlags(tid, 0b1100))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitOne never unblocked")
	}
	assert.EqualValues(t, 0b0100, got)

	assert.EqualValues(t, 0b1000, remaining, "only the lowest matched bit is cleared")
}
