//go:build !multicore

package multicore

// noopSpinlock is the default build's Spinlock: single-core builds have no
// peer core to race against scheduler state with, so multicore_lock_with is
// specified to be a no-op (spec §4.10).
type noopSpinlock struct{}

func (noopSpinlock) Lock()   {}
func (noopSpinlock) Unlock() {}

// NewSpinlock returns the default build's spinlock. Build with
// "-tags multicore" to get the simulated cross-core mutex instead.
func NewSpinlock() Spinlock {
	return noopSpinlock{}
}

// localIPI is the default build's IPI: there is exactly one core, so
// "posting" is a local wake (the simulated stand-in for setting PendSV) and
// there is never a peer to interrupt.
type localIPI struct {
	wake chan struct{}
}

func (l *localIPI) Post(int) {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *localIPI) Wait(int) {
	<-l.wake
}

// NewIPI returns the default build's IPI sender, ignoring handlers since
// there is no peer core to interrupt.
func NewIPI(cores int, _ func(core int)) (IPI, error) {
	if cores > 1 {
		return nil, errMulticoreTagRequired
	}
	return &localIPI{wake: make(chan struct{}, 1)}, nil
}

// StartupOtherCores is a no-op on a single-core build when cores == 1; it
// rejects cores > 1 since real SMP bring-up requires the multicore build.
func StartupOtherCores(cores int, _ func(core int)) error {
	if cores > 1 {
		return errMulticoreTagRequired
	}
	return nil
}
