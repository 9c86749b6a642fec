package kernel

import (
	"github.com/fxsched/kernel/autostart"
	"github.com/fxsched/kernel/klog"
)

// Boot walks the autostart registry and Create's each descriptor in
// registration order (spec §6: "at boot the runtime calls each
// descriptor's initializer, which invokes create"). Call once, before
// spawning the per-core RunCore goroutines.
func (s *Scheduler) Boot(descriptors []autostart.Descriptor) error {
	for _, d := range descriptors {
		prio := d.Priority
		if prio == 0 {
			prio = 1
		}
		var affinity *Affinity
		if d.Affinity != nil {
			a := Affinity(*d.Affinity)
			affinity = &a
		}
		entry := d.Entry
		tid, err := s.Create(func(self ThreadID, arg uintptr) {
			entry(uint8(self), arg)
		}, d.Arg, d.Stack, prio, affinity)
		if err != nil {
			klog.Get().Log(klog.Event{
				Level: klog.LevelError, Category: "boot", Core: -1, ThreadID: -1,
				Message: "failed to start autostart descriptor " + d.Name, Err: err,
			})
			return err
		}
		klog.Get().Log(klog.Event{
			Level: klog.LevelInfo, Category: "boot", Core: -1, ThreadID: int(tid),
			Message: "started autostart descriptor " + d.Name,
		})
	}
	return nil
}
