//go:build riscv_esp

package arch

// RISC-V ESP32-C3/C6 backend. The real trampoline is the machine-mode
// software interrupt handler that swaps the mscratch-pointed register save
// area, which is out of scope per spec §1. This file documents the same
// contract shape as sim.go and is never the default build.

func SetupStack(stack []byte, entry func(arg uintptr), arg uintptr, cleanup func()) Context {
	panic("arch: riscv_esp trampoline not implemented in this tree (out of scope per spec §1)")
}

func Yield(ctx Context)    { panic("arch: riscv_esp trampoline not implemented in this tree") }
func Dispatch(ctx Context) { panic("arch: riscv_esp trampoline not implemented in this tree") }
func Finished(ctx Context) bool {
	panic("arch: riscv_esp trampoline not implemented in this tree")
}
