//go:build cortexm

package arch

// Cortex-M0+/M4/M33 backend. The real trampoline is the PendSV exception
// handler: it saves R4–R11 to the outgoing thread's stack, calls the
// language-level sched function, and restores R4–R11 from the incoming
// stack before an exception return that selects the Process Stack (spec
// §4.4). That handler is hand-written assembly plus a thin architecture-
// specific Go shim around it (the hardware register layout and the
// EXC_RETURN value are out of this repository's scope per spec §1) — this
// file exists only to document the contract real firmware must satisfy and
// is never the default build.

// Context, on real Cortex-M hardware, is the saved Process Stack Pointer —
// an address within the thread's own statically-allocated stack slice.

// SetupStack writes the initial exception-return stack frame (xPSR, PC=fn,
// LR=cleanup, R0=arg, plus the R4–R11 software-saved frame) that makes a
// freshly created thread appear, to the PendSV handler, as if it had just
// been switched out — see spec §4.3.
func SetupStack(stack []byte, entry func(arg uintptr), arg uintptr, cleanup func()) Context {
	panic("arch: cortexm trampoline requires the assembly PendSV handler; not implemented in this tree (out of scope per spec §1)")
}

// Yield and Dispatch, on real hardware, are not separate Go-level calls at
// all — they are the two halves of the single PendSV exception: Yield is
// "an exception fired and we're mid-handler", Dispatch is "we chose the
// next thread and are returning from the exception into it". They're kept
// here only so this file satisfies the same contract shape as sim.go.
func Yield(ctx Context)      { panic("arch: cortexm trampoline not implemented in this tree") }
func Dispatch(ctx Context)   { panic("arch: cortexm trampoline not implemented in this tree") }
func Finished(ctx Context) bool {
	panic("arch: cortexm trampoline not implemented in this tree")
}
