// Package autostart is the Go-idiomatic stand-in for spec §6's
// link-time-collected THREAD_FNS array: application code that wants a
// thread launched at boot registers a Descriptor from an init() function,
// following the same blank-import-and-init-time-registration idiom as
// database/sql drivers or image format decoders, rather than relying on a
// linker section (which Go has no portable way to express).
package autostart

import "sync"

// Descriptor is one entry of the registry: everything create needs to
// bring a thread up at boot (spec §6 "thread registration").
type Descriptor struct {
	// Name identifies the descriptor for logging; optional.
	Name string
	// Entry is the thread body. Arg and Self are supplied by the
	// scheduler at dispatch time via kernel.Scheduler.Create.
	Entry func(self uint8, arg uintptr)
	// Arg is the single register-sized argument word.
	Arg uintptr
	// Stack is the statically-reserved stack buffer (spec's Ownership:
	// "caller-provided, statically allocated").
	Stack []byte
	// Priority defaults to 1 if left zero, per spec §6's documented
	// default priority for autostarted threads.
	Priority uint8
	// Affinity is nil unless the core-affinity feature is enabled and
	// this thread should be pinned.
	Affinity *uint32
}

var registry struct {
	sync.Mutex
	descriptors []Descriptor
}

// Register appends d to the boot-time registry. Intended to be called from
// an init() function in application code, mirroring THREAD_FNS.
func Register(d Descriptor) {
	registry.Lock()
	defer registry.Unlock()
	registry.descriptors = append(registry.descriptors, d)
}

// All returns a snapshot of the current registry, in registration order.
func All() []Descriptor {
	registry.Lock()
	defer registry.Unlock()
	out := make([]Descriptor, len(registry.descriptors))
	copy(out, registry.descriptors)
	return out
}
