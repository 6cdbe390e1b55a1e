package onsen

import "go.uber.org/zap"

// Config carries the knobs a pool is constructed with. Mirrors the
// functional-options style of the teacher's allocator.Config/Option.
type Config struct {
	// MinEntries is the minimum capacity (in entries) of a pool's first
	// block. Rounded up to a power-of-two byte size, with a hard floor
	// of 64 entries (spec.md §4.2).
	MinEntries int

	// MmapThreshold, when non-zero, causes blocks whose byte size meets
	// or exceeds it to be backed by an anonymous mmap instead of a plain
	// make([]byte, n) allocation. Zero (the default) disables mmap
	// backing entirely.
	MmapThreshold uintptr

	// Logger receives structured diagnostics: block creation, pools
	// closed with live handles, finalizer-detected leaks, ArcPool
	// poisoning. A nil Logger behaves like zap.NewNop().
	Logger *zap.Logger
}

// Option mutates a Config under construction.
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{
		MinEntries:    64,
		MmapThreshold: 0,
		Logger:        nopLogger,
	}
}

func buildConfig(opts []Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	cfg.Logger = loggerOrNop(cfg.Logger)

	return cfg
}

// WithMinEntries sets the minimum entry count of the first block when the
// pool is constructed. Pool.SetMinEntries changes it afterwards and panics
// once the pool has allocated its first block.
func WithMinEntries(n int) Option {
	return func(c *Config) { c.MinEntries = n }
}

// WithMmapThreshold enables mmap-backed blocks once a block's byte size
// would meet or exceed threshold bytes.
func WithMmapThreshold(threshold uintptr) Option {
	return func(c *Config) { c.MmapThreshold = threshold }
}

// WithLogger attaches a structured logger to the pool.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}
