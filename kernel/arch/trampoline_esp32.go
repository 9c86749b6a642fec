//go:build esp32

package arch

// Xtensa ESP32-S3 backend. The real trampoline is a low-priority software
// interrupt handler (xthal_set_intclear / the vendor HAL's frame layout)
// rather than PendSV, and secondary-core IPI is the Xtensa inter-CPU
// interrupt — both are out of scope per spec §1. This file documents the
// same contract shape as sim.go and is never the default build.

func SetupStack(stack []byte, entry func(arg uintptr), arg uintptr, cleanup func()) Context {
	panic("arch: esp32 trampoline not implemented in this tree (out of scope per spec §1)")
}

func Yield(ctx Context)    { panic("arch: esp32 trampoline not implemented in this tree") }
func Dispatch(ctx Context) { panic("arch: esp32 trampoline not implemented in this tree") }
func Finished(ctx Context) bool {
	panic("arch: esp32 trampoline not implemented in this tree")
}
