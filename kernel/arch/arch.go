// Package arch specifies the Architecture Trampoline contract of spec §4.4
// and §9: {SetupStack, Yield, Dispatch, Finished}. The real per-chip trampoline — the
// assembly that saves/restores callee-saved registers to/from a thread's own
// stack slice — is explicitly out of scope (spec §1); this package only
// specifies the contract the scheduler programs against, following the
// teacher's pattern of selecting the concrete implementation by build tag
// (see eventloop/poller_linux.go vs poller_darwin.go vs poller_windows.go)
// rather than a runtime-dispatched interface (spec §9: "never dynamic
// dispatch").
//
// The default build (no tag) is Sim: a real, runnable implementation backed
// by one goroutine per thread, used by every test in this repository. Each
// real chip gets its own file behind a custom build tag (cortexm, esp32,
// rp2040, riscv_esp) that is never the default build and documents the
// contract a genuine assembly trampoline must satisfy.
package arch

// Context is the opaque per-thread payload the trampoline associates with a
// thread — a saved stack pointer on real hardware, a goroutine handoff pair
// under Sim. The scheduler stores it and passes it back verbatim; it never
// interprets the value itself.
type Context any
