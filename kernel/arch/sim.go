//go:build !cortexm && !esp32 && !rp2040 && !riscv_esp

package arch

// Sim is the host-testable Architecture Trampoline backend. A context switch
// is a channel handoff between the scheduler's core loop and exactly one
// goroutine per thread — Go's own runtime already preserves the full call
// stack of a goroutine parked on a channel receive, which is precisely what
// a real trampoline achieves by spilling callee-saved registers to the
// outgoing stack. This mirrors eventloop/loop.go's single-active-task-at-a-
// time execution model, generalized from "one task" to "one thread per
// core, handed off explicitly".
type simContext struct {
	resume   chan struct{} // core loop -> thread: "you're dispatched"
	parked   chan struct{} // thread -> core loop: "I've stopped running"
	finished bool
}

// SetupStack primes a new thread's execution context (spec §4.3 Create):
// the returned Context, once first Dispatched, runs entry(arg) to
// completion and then cleanup — cleanup is installed as the fake return
// address every new stack carries, so a thread that returns normally is
// still captured and reclaimed (spec §6).
//
// stack is accepted only to keep the signature aligned with the real
// per-chip trampolines, which carve the thread's register frame out of it;
// Sim needs no such carving since the goroutine's own stack is managed by
// the Go runtime.
func SetupStack(stack []byte, entry func(arg uintptr), arg uintptr, cleanup func()) Context {
	_ = stack
	ctx := &simContext{
		resume: make(chan struct{}),
		parked: make(chan struct{}),
	}
	go func() {
		<-ctx.resume
		entry(arg)
		cleanup()
		ctx.finished = true
		ctx.parked <- struct{}{}
	}()
	return ctx
}

// Yield is called by the thread itself, from within a blocking primitive or
// an explicit Park/YieldSame, to give up the CPU: it tells the core loop it
// has stopped running, then blocks until Dispatch grants it the CPU again.
// This is the thread-side half of a context switch.
func Yield(ctx Context) {
	c := ctx.(*simContext)
	c.parked <- struct{}{}
	<-c.resume
}

// Dispatch is called by the core loop to grant ctx the CPU, and blocks
// until that thread parks again (voluntarily, via Yield, or by finishing).
// This is the trampoline-side half of a context switch: spec §4.4 steps
// 2–4 collapse, under Sim, into "unblock the goroutine and wait for it to
// block again", since the Go runtime is doing the register save/restore
// for us as an ordinary side effect of parking on a channel.
func Dispatch(ctx Context) {
	c := ctx.(*simContext)
	c.resume <- struct{}{}
	<-c.parked
}

// Finished reports whether ctx's thread function has returned (and
// cleanup has run), i.e. it will never be usefully Dispatched again.
func Finished(ctx Context) bool {
	return ctx.(*simContext).finished
}
