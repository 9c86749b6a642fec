//go:build rp2040

package arch

// RP2040 backend. The real cross-core wake is a FIFO token pushed to the
// peer core's SIO mailbox rather than a PendSV-style interrupt, and the
// trampoline is the same Cortex-M0+ PendSV handler as trampoline_cortexm.go
// underneath — both are out of scope per spec §1. This file documents the
// same contract shape as sim.go and is never the default build.

func SetupStack(stack []byte, entry func(arg uintptr), arg uintptr, cleanup func()) Context {
	panic("arch: rp2040 trampoline not implemented in this tree (out of scope per spec §1)")
}

func Yield(ctx Context)    { panic("arch: rp2040 trampoline not implemented in this tree") }
func Dispatch(ctx Context) { panic("arch: rp2040 trampoline not implemented in this tree") }
func Finished(ctx Context) bool {
	panic("arch: rp2040 trampoline not implemented in this tree")
}
