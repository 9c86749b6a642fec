//go:build multicore

package multicore

import "sync"

// realSpinlock is the simulated cross-core spinlock: a plain sync.Mutex
// standing in for the dedicated hardware lock a real multi-core chip would
// provide (spec §4.10). The kernel composes this with local
// preemption-disable to form the full scheduler lock (§9's
// critical_section_with).
type realSpinlock struct {
	mu sync.Mutex
}

func (s *realSpinlock) Lock()   { s.mu.Lock() }
func (s *realSpinlock) Unlock() { s.mu.Unlock() }

// NewSpinlock returns the multicore build's spinlock.
func NewSpinlock() Spinlock {
	return &realSpinlock{}
}

// StartupOtherCores spawns a goroutine per secondary core (1..cores-1),
// each running entry(core) for the lifetime of the process — the Go
// simulation's analogue of bringing up a physical secondary core onto its
// idle entry point (spec §4.10).
func StartupOtherCores(cores int, entry func(core int)) error {
	for c := 1; c < cores; c++ {
		core := c
		go entry(core)
	}
	return nil
}
