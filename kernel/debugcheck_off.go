//go:build !kernel_debug

package kernel

// No-op stand-ins for debugcheck_on.go's invariant assertions: a production
// build (no "kernel_debug" tag) pays nothing for them. Call sites throughout
// this package invoke these unconditionally so the checks can be toggled by
// build tag alone, with no #ifdef-style call-site branching.

func debugCheckBitmapInvariant(*Scheduler)          {}
func debugCheckCurrentNotInRunqueue(*Scheduler)     {}
func debugCheckNoDoubleOccupancy(*Scheduler)        {}
func debugCheckLockInvariant(*Lock)                 {}
func debugCheckChannelInvariant[T any](*Channel[T]) {}
