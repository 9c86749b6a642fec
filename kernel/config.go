package kernel

// Config holds the compile-time constants of spec §6, modeled as runtime
// configuration assembled once at Scheduler construction time (Go has no
// const-generic equivalent of the original's build-time constants; a
// functional-options constructor, as the teacher's Loop uses for its own
// tunables, is the idiomatic substitute).
type Config struct {
	// ThreadCapacity is N_THREADS: the fixed size of the TCB table. Must be
	// in (0, 255); 255 (0xFF) is the CList sentinel and may never be a valid
	// thread ID.
	ThreadCapacity int

	// PriorityLevels is N_PRIORITIES: the number of distinct priority
	// buckets, numbered 0 (lowest) .. PriorityLevels-1 (highest). Must be in
	// (0, 32]; the bitmap is a single uint32.
	PriorityLevels int

	// Cores is the number of logical cores the scheduler tracks a current
	// thread for. 1 selects the single-core code paths throughout.
	Cores int

	// CoreAffinityEnabled mirrors the `core-affinity` feature flag: when
	// false, every TCB's affinity mask is ignored and Create rejects a
	// non-nil affinity argument with ErrInvalidThreadID (affinity isn't a
	// concept that exists for this build).
	CoreAffinityEnabled bool

	// IdleStackBytes and ISRStackBytes are carried for completeness with
	// spec §6; this package does not itself allocate stacks (stack storage
	// is always caller-provided per spec §3 Ownership), so these are purely
	// advisory values: they are stored here and nothing in this package
	// reads them (the idle threads are created with a nil stack).
	IdleStackBytes int
	ISRStackBytes  int
}

// Default construction constants, per spec §6.
const (
	DefaultThreadCapacity = 16
	DefaultPriorityLevels = 12
	DefaultIdleStackBytes = 256
	DefaultISRStackBytes  = 8 * 1024
)

// defaultConfig returns the spec's documented defaults.
func defaultConfig() Config {
	return Config{
		ThreadCapacity:      DefaultThreadCapacity,
		PriorityLevels:      DefaultPriorityLevels,
		Cores:               1,
		CoreAffinityEnabled: false,
		IdleStackBytes:      DefaultIdleStackBytes,
		ISRStackBytes:       DefaultISRStackBytes,
	}
}

// Option configures a Scheduler at construction time, following the same
// shape as the teacher's LoopOption/resolveLoopOptions pair.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// WithThreadCapacity overrides N_THREADS (default 16).
func WithThreadCapacity(n int) Option {
	return optionFunc(func(c *Config) { c.ThreadCapacity = n })
}

// WithPriorityLevels overrides N_PRIORITIES (default 12).
func WithPriorityLevels(n int) Option {
	return optionFunc(func(c *Config) { c.PriorityLevels = n })
}

// WithCores sets the number of cores the scheduler tracks (default 1).
// Values greater than 1 enable the multi-core scheduling paths described in
// spec §4.2/§4.3/§5.
func WithCores(n int) Option {
	return optionFunc(func(c *Config) { c.Cores = n })
}

// WithCoreAffinity enables or disables the `core-affinity` feature (default
// disabled).
func WithCoreAffinity(enabled bool) Option {
	return optionFunc(func(c *Config) { c.CoreAffinityEnabled = enabled })
}

// WithIdleStackBytes overrides the advisory idle-thread stack size.
func WithIdleStackBytes(n int) Option {
	return optionFunc(func(c *Config) { c.IdleStackBytes = n })
}

// WithISRStackBytes overrides the advisory ISR stack size.
func WithISRStackBytes(n int) Option {
	return optionFunc(func(c *Config) { c.ISRStackBytes = n })
}

// resolveConfig applies opts over the documented defaults, skipping nil
// options gracefully (matching the teacher's resolveLoopOptions).
func resolveConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&cfg)
	}
	return cfg
}
