package onsen

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

// arcPoolCore is the shared, mutex-guarded state multiple ArcPool handles
// point to: the thread-safe "atomic pool" variant of spec.md §4.4. A
// panic raised while the lock is held poisons the pool permanently,
// mirroring the "safest mapping" resolution of the Arc-mutex open
// question: once a destructor panics mid-mutation, the pool's internal
// structures (freelist, block bookkeeping) cannot be trusted, so every
// later operation is refused rather than risking silent corruption.
type arcPoolCore[R any] struct {
	mu       sync.Mutex
	inner    poolInner[R]
	cfg      *Config
	refCount atomic.Int64
	poisoned atomic.Bool
}

// ArcPool is a thread-safe, cloneable shared pool.
type ArcPool[R any] struct {
	core *arcPoolCore[R]
}

// NewArcPool creates a new single-owner ArcPool with one outstanding
// reference.
func NewArcPool[R any](opts ...Option) *ArcPool[R] {
	cfg := buildConfig(opts)

	core := &arcPoolCore[R]{inner: *newPoolInner[R](cfg), cfg: cfg}
	core.refCount.Store(1)

	return &ArcPool[R]{core: core}
}

// Clone returns another handle to the same pool, atomically incrementing
// its reference count. Safe to call from any goroutine.
func (p *ArcPool[R]) Clone() *ArcPool[R] {
	p.core.refCount.Add(1)

	return &ArcPool[R]{core: p.core}
}

func (p *ArcPool[R]) withLock(fn func(*poolInner[R])) {
	if p.core.poisoned.Load() {
		panic(newPoolError(ErrPoisoned, "ArcPool operation attempted on a poisoned pool"))
	}

	p.core.mu.Lock()
	defer p.core.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			p.core.poisoned.Store(true)
			p.core.cfg.Logger.Error("onsen: ArcPool poisoned by a panic while its lock was held",
				zap.Stringer("pool_id", p.core.inner.id), zap.Any("panic", r))
			panic(r)
		}
	}()

	fn(&p.core.inner)
}

func (p *ArcPool[R]) allocRaw(value R) unsafe.Pointer {
	var entry unsafe.Pointer

	p.withLock(func(inner *poolInner[R]) {
		entry = inner.allocEntry()
		*valueAt[R](entry) = value
	})

	return entry
}

func (p *ArcPool[R]) freeRaw(entry unsafe.Pointer) {
	p.withLock(func(inner *poolInner[R]) { inner.freeEntry(entry) })
}

func (p *ArcPool[R]) freeRawUnchecked(entry unsafe.Pointer) {
	p.withLock(func(inner *poolInner[R]) { inner.fastFreeEntryUnchecked(entry) })
}

// Alloc stores value and returns an UnsafeBox over it.
func (p *ArcPool[R]) Alloc(value R) UnsafeBox[R] {
	entry := p.allocRaw(value)

	return newUnsafeBox[R](entry, p.core.cfg.Logger)
}

// Dealloc destructs the value and returns the slot via the
// address-checked free path. The destructor runs inside the pool's lock,
// immediately before the slot is returned, so a panicking Destroy still
// returns the slot and correctly poisons the pool (spec.md §7/§5)
// instead of escaping before the lock's recover ever sees it.
func (p *ArcPool[R]) Dealloc(b UnsafeBox[R]) {
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
func (p *ArcPool[R]) DeallocUnchecked(b UnsafeBox[R]) {
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
func (p *ArcPool[R]) Forget(b UnsafeBox[R]) {
	entry := b.takeEntry()
	if entry != nil {
		p.freeRaw(entry)
	}
}

// Take extracts the value and returns the slot.
func (p *ArcPool[R]) Take(b UnsafeBox[R]) R {
	value, entry := b.take()
	if entry != nil {
		p.freeRaw(entry)
	}

	return value
}

// Stat returns diagnostics for the shared pool.
func (p *ArcPool[R]) Stat() PoolStats {
	var stats PoolStats

	p.withLock(func(inner *poolInner[R]) { stats = inner.stat() })

	return stats
}

func (p *ArcPool[R]) IsAllFree() bool {
	var allFree bool

	p.withLock(func(inner *poolInner[R]) { allFree = inner.isAllFree() })

	return allFree
}

// IsPoisoned reports whether a prior panic while the lock was held has
// permanently disabled this pool.
func (p *ArcPool[R]) IsPoisoned() bool {
	return p.core.poisoned.Load()
}

// Close releases this handle's reference; the pool's blocks are freed
// once the last clone is closed.
func (p *ArcPool[R]) Close() {
	if p.core.refCount.Add(-1) > 0 {
		return
	}

	p.withLock(func(inner *poolInner[R]) {
		debugCloseCheck[R](inner, p.core.cfg)
		inner.closeBlocks()
	})
}

// Leak forgets the pool's blocks so they are never freed, regardless of
// outstanding clones.
func (p *ArcPool[R]) Leak() {
	p.withLock(func(inner *poolInner[R]) {
		for i := range inner.blocks {
			inner.blocks[i] = nil
		}

		inner.blocksAllocated = 0
		inner.freelist = nil
	})
}
