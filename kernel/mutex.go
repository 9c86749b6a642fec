package kernel

// Mutex is the generic Mutex<T> of spec §4.6: a Lock plus an inner value,
// guarded so the value is reachable only through a held MutexGuard. Go has
// no destructors to release the lock on drop, so callers defer Unlock
// explicitly — the idiomatic substitute the teacher's codebase uses for
// every scoped-resource type.
type Mutex[T any] struct {
	lock  *Lock
	value T
}

// NewMutex constructs a Mutex bound to s with the given initial value.
func NewMutex[T any](s *Scheduler, initial T) *Mutex[T] {
	return &Mutex[T]{lock: NewLock(s), value: initial}
}

// MutexGuard grants exclusive access to a Mutex's value for as long as it
// is held. Call Unlock (typically via defer) exactly once to release it.
type MutexGuard[T any] struct {
	m    *Mutex[T]
	self ThreadID
}

// Lock acquires the mutex, blocking per spec §4.5 acquire semantics, and
// returns a guard.
func (m *Mutex[T]) Lock(self ThreadID) *MutexGuard[T] {
	m.lock.Acquire(self)
	return &MutexGuard[T]{m: m, self: self}
}

// TryLock attempts to acquire the mutex without blocking.
func (m *Mutex[T]) TryLock(self ThreadID) (*MutexGuard[T], bool) {
	if !m.lock.TryAcquire(self) {
		return nil, false
	}
	return &MutexGuard[T]{m: m, self: self}, true
}

// Get reads the guarded value.
func (g *MutexGuard[T]) Get() T { return g.m.value }

// Set writes the guarded value.
func (g *MutexGuard[T]) Set(v T) { g.m.value = v }

// Unlock releases the mutex. Safe to call at most once per guard.
func (g *MutexGuard[T]) Unlock() { g.m.lock.Release(g.self) }
