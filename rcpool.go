package onsen

import "unsafe"

// rcPoolCore is the shared state multiple RcPool handles point to. It is
// the single-threaded "ref-counted shared pool" variant of spec.md §4.4:
// cloning an RcPool shares the same core; the core's blocks are only
// released once every clone has been closed.
type rcPoolCore[R any] struct {
	inner    poolInner[R]
	cfg      *Config
	refCount int
	inLock   bool
}

// RcPool is a single-threaded, cloneable shared pool. It backs Rc/Sc's
// pool-handle-in-the-handle ("thin") strategy and Box's fat-entry
// strategy equally well, since both only need alloc/free over raw entry
// pointers of whatever record type R they are instantiated with.
type RcPool[R any] struct {
	core *rcPoolCore[R]
}

// NewRcPool creates a new single-owner RcPool with one outstanding
// reference.
func NewRcPool[R any](opts ...Option) *RcPool[R] {
	cfg := buildConfig(opts)

	return &RcPool[R]{core: &rcPoolCore[R]{inner: *newPoolInner[R](cfg), cfg: cfg, refCount: 1}}
}

// Clone returns another handle to the same pool, incrementing its
// reference count.
func (p *RcPool[R]) Clone() *RcPool[R] {
	p.core.refCount++

	return &RcPool[R]{core: p.core}
}

func (p *RcPool[R]) withLock(fn func(*poolInner[R])) {
	if p.core.inLock {
		panic(newPoolError(ErrReentrantLock, "RcPool.WithLock re-entered"))
	}

	p.core.inLock = true
	defer func() { p.core.inLock = false }()

	fn(&p.core.inner)
}

func (p *RcPool[R]) allocRaw(value R) unsafe.Pointer {
	var entry unsafe.Pointer

	p.withLock(func(inner *poolInner[R]) {
		entry = inner.allocEntry()
		*valueAt[R](entry) = value
	})

	return entry
}

func (p *RcPool[R]) freeRaw(entry unsafe.Pointer) {
	p.withLock(func(inner *poolInner[R]) { inner.freeEntry(entry) })
}

func (p *RcPool[R]) freeRawUnchecked(entry unsafe.Pointer) {
	p.withLock(func(inner *poolInner[R]) { inner.fastFreeEntryUnchecked(entry) })
}

// Alloc stores value and returns an UnsafeBox over it, for callers that
// want a shared pool without the Rc/Sc/Box refcounting machinery.
func (p *RcPool[R]) Alloc(value R) UnsafeBox[R] {
	entry := p.allocRaw(value)

	return newUnsafeBox[R](entry, p.core.cfg.Logger)
}

// Dealloc destructs the value and returns the slot via the
// address-checked free path. The destructor runs inside the pool's lock,
// immediately before the slot is returned, so a panicking Destroy still
// leaves the slot back on the freelist (spec.md §7).
func (p *RcPool[R]) Dealloc(b UnsafeBox[R]) {
	entry := b.takeEntry()
	if entry == nil {
		return
	}

	p.withLock(func(inner *poolInner[R]) {
		defer inner.freeEntry(entry)
		destroyIfDestroyable(valueAt[R](entry))
	})
}

// DeallocUnchecked is Dealloc's unchecked-fast counterpart.
func (p *RcPool[R]) DeallocUnchecked(b UnsafeBox[R]) {
	entry := b.takeEntry()
	if entry == nil {
		return
	}

	p.withLock(func(inner *poolInner[R]) {
		defer inner.fastFreeEntryUnchecked(entry)
		destroyIfDestroyable(valueAt[R](entry))
	})
}

// Forget returns the slot without destructing the value.
func (p *RcPool[R]) Forget(b UnsafeBox[R]) {
	entry := b.takeEntry()
	if entry != nil {
		p.freeRaw(entry)
	}
}

// Take extracts the value and returns the slot.
func (p *RcPool[R]) Take(b UnsafeBox[R]) R {
	value, entry := b.take()
	if entry != nil {
		p.freeRaw(entry)
	}

	return value
}

// Stat returns diagnostics for the shared pool.
func (p *RcPool[R]) Stat() PoolStats {
	var stats PoolStats

	p.withLock(func(inner *poolInner[R]) { stats = inner.stat() })

	return stats
}

func (p *RcPool[R]) IsAllFree() bool {
	var allFree bool

	p.withLock(func(inner *poolInner[R]) { allFree = inner.isAllFree() })

	return allFree
}

// Close releases this handle's reference; the pool's blocks are freed
// once the last clone is closed.
func (p *RcPool[R]) Close() {
	p.core.refCount--
	if p.core.refCount > 0 {
		return
	}

	p.withLock(func(inner *poolInner[R]) {
		debugCloseCheck[R](inner, p.core.cfg)
		inner.closeBlocks()
	})
}

// Leak forgets the pool's blocks so they are never freed, regardless of
// outstanding clones.
func (p *RcPool[R]) Leak() {
	p.withLock(func(inner *poolInner[R]) {
		for i := range inner.blocks {
			inner.blocks[i] = nil
		}

		inner.blocksAllocated = 0
		inner.freelist = nil
	})
}
