// Package logifaceklog adapts klog.Logger onto github.com/joeycumines/logiface,
// using github.com/joeycumines/stumpy as the default concrete Event backend
// (grounded on logiface-stumpy/example_test.go's stumpy.L.New(...)
// construction). This is the reference "real logging facility" a board
// integrator wires in; the kernel itself never imports logiface directly,
// keeping the hot path free of the framework's generic dispatch.
package logifaceklog

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/fxsched/kernel/klog"
)

// New builds a klog.Logger backed by a stumpy-rendered logiface.Logger. Pass
// additional stumpy.Option values (e.g. stumpy.WithTimeField) to customize
// rendering, as shown in logiface-stumpy's own examples.
func New(minLevel klog.Level, opts ...stumpy.Option) klog.Logger {
	logger := stumpy.L.New(
		stumpy.L.WithLevel(toLogiface(minLevel)),
		stumpy.L.WithStumpy(opts...),
	)
	return &adapter{logger: logger}
}

type adapter struct {
	logger *logiface.Logger[*stumpy.Event]
}

// Enabled reports whether level would actually be emitted. logiface syslog
// levels run low-to-high from most to least severe (LevelEmergency=0 ...
// LevelDebug=7 ... LevelTrace=8), so "at least as severe as the configured
// floor" is eventLevel <= configuredLevel, i.e. configuredLevel >= eventLevel
// — the direction used below, matching logiface's own Logger.canLog (`level
// <= x.shared.level`) read with the operands swapped.
func (a *adapter) Enabled(level klog.Level) bool {
	return a.logger.Level() >= toLogiface(level)
}

func (a *adapter) Log(evt klog.Event) {
	b := a.logger.Build(toLogiface(evt.Level))
	if b == nil {
		return
	}
	if evt.Category != "" {
		b = b.Str("category", evt.Category)
	}
	if evt.Core >= 0 {
		b = b.Int("core", evt.Core)
	}
	if evt.ThreadID >= 0 {
		b = b.Int("thread", evt.ThreadID)
	}
	if evt.Err != nil {
		b = b.Err(evt.Err)
	}
	for k, v := range evt.Fields {
		b = b.Any(k, v)
	}
	b.Log(evt.Message)
}

func toLogiface(l klog.Level) logiface.Level {
	switch l {
	case klog.LevelDebug:
		return logiface.LevelDebug
	case klog.LevelInfo:
		return logiface.LevelInformational
	case klog.LevelWarn:
		return logiface.LevelWarning
	case klog.LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}
