package kernel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutex_LockGuardsValue(t *testing.T) {
	s := NewScheduler(WithThreadCapacity(4), WithCores(1))
	m := NewMutex[int](s, 0)
	done := make(chan struct{})

	_, err := s.Create(func(self ThreadID, _ uintptr) {
		g := m.Lock(self)
		g.Set(g.Get() + 1)
		g.Unlock()
		close(done)
	}, 0, make([]byte, 64), 1, nil)
	require.NoError(t, err)

	go s.RunCore(0)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("mutex-guarded thread never completed")
	}
}

func TestMutex_TryLockFailsWhileHeld(t *testing.T) {
	s := NewScheduler(WithThreadCapacity(4), WithCores(1))
	m := NewMutex[string](s, "initial")
	rec := &recorder{}
	done := make(chan struct{})

	holder, err := s.Create(func(self ThreadID, _ uintptr) {
		g := m.Lock(self)
		rec.add("held")
		s.WaitAny(self, flagProceed)
		g.Unlock()
	}, 0, make([]byte, 64), 1, nil)
	require.NoError(t, err)

	_, err = s.Create(func(self ThreadID, _ uintptr) {
		s.WaitAny(self, flagStart)
		_, ok := m.TryLock(self)
		assert.False(t, ok)
		close(done)
	}, 0, make([]byte, 64), 1, nil)
	require.NoError(t, err)

	go s.RunCore(0)

	waitFor(t, func() bool {
		snap := rec.snapshot()
		return len(snap) > 0 && snap[0] == "held"
	})
	// Release the second thread via a scan since its TID wasn't captured.
	var waiter ThreadID = Sentinel
	s.lock.with(func() {
		for i := range s.tcbs {
			if s.tcbs[i].state == FlagBlockedAny && ThreadID(i) != holder {
				waiter = ThreadID(i)
			}
		}
	})
	require.NotEqual(t, Sentinel, waiter)
	require.NoError(t, s.SetFlags(waiter, flagStart))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("TryLock never observed contention")
	}
	require.NoError(t, s.SetFlags(holder, flagProceed))
}
