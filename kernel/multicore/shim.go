// Package multicore implements the per-chip capability shim of spec §4.10:
// secondary-core bring-up, the cross-core scheduler IPI, and the dedicated
// spinlock that guards scheduler state across cores.
//
// Following the teacher's per-OS backend pattern (eventloop/poller_linux.go,
// poller_darwin.go, poller_windows.go all define the same FastPoller methods,
// selected by the Go toolchain via GOOS build constraints — never a runtime
// interface), the real per-chip functions here are selected by build tag:
// the default (no tag) build is single-core, and "-tags multicore" selects
// the simulated-SMP backend used by this repository's multi-core tests.
// Real secondary-core bring-up on Cortex-M/ESP32-S3/RP2040 hardware is, like
// the architecture trampoline, specified only by this contract — the actual
// per-chip startup assembly is out of scope (spec §1).
package multicore

import "errors"

// errMulticoreTagRequired is returned when a caller asks for more than one
// core but the binary wasn't built with "-tags multicore".
var errMulticoreTagRequired = errors.New("multicore: requested more than 1 core without the multicore build tag")

// Spinlock is the dedicated hardware/software lock reserved for scheduler
// state (spec §4.10, §5: "No other synchronization primitive may be entered
// while the scheduler lock is held except for the dedicated multicore
// spinlock reserved for the scheduler"). Build-tag-selected implementations
// satisfy this type; on a single-core build it never blocks.
type Spinlock interface {
	Lock()
	Unlock()
}

// IPI abstracts "raise the peer-core interrupt that causes it to re-enter
// the scheduler". Build-tag-selected implementations satisfy this; the
// default single-core build's IPI is a local no-op (there is no peer core).
type IPI interface {
	// Post requests a reschedule on core. Idempotent: multiple posts before
	// the target core services them coalesce into one reschedule (spec §5).
	// On the real trampoline (out of scope here) this sets PendSV or raises
	// a software interrupt; the simulated backends model it as a coalescing
	// wake (a buffered channel send, or an eventfd write on Linux) that the
	// target core's Wait consumes.
	Post(core int)

	// Wait blocks the calling (core-pinned) goroutine until the next Post
	// targeting core. It is the simulated backend's stand-in for "the
	// architecture trampoline fires and re-enters sched".
	Wait(core int)
}
