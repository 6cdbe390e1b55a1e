package onsen

import "unsafe"

// Pool is the plain, single-owner pool variant (spec.md §4.4): exclusive
// interior mutability via a non-reentrant lock guard, must outlive every
// handle it produced. It is the variant BasicBox borrows from.
type Pool[T any] struct {
	inner  poolInner[T]
	cfg    *Config
	inLock bool
}

// NewPool creates an empty Pool. The first block is created lazily on
// the first Alloc.
func NewPool[T any](opts ...Option) *Pool[T] {
	cfg := buildConfig(opts)

	return &Pool[T]{inner: *newPoolInner[T](cfg), cfg: cfg}
}

func (p *Pool[T]) withLock(fn func(*poolInner[T])) {
	if p.inLock {
		panic(newPoolError(ErrReentrantLock, "Pool.WithLock re-entered"))
	}

	p.inLock = true
	defer func() { p.inLock = false }()

	fn(&p.inner)
}

// SetMinEntries sets the first-block capacity hint. Panics if the pool
// has already allocated its first block.
func (p *Pool[T]) SetMinEntries(n int) {
	p.withLock(func(inner *poolInner[T]) { inner.setMinEntries(n) })
}

// Alloc stores value in the pool and returns an UnsafeBox over it.
func (p *Pool[T]) Alloc(value T) UnsafeBox[T] {
	var entry unsafe.Pointer

	p.withLock(func(inner *poolInner[T]) {
		entry = inner.allocEntry()
		*valueAt[T](entry) = value
	})

	return newUnsafeBox[T](entry, p.cfg.Logger)
}

// Dealloc destructs the value (if Destroyable) and returns the slot,
// using the address-checked free path. The destructor runs inside the
// pool's lock, immediately before the slot is returned, so a panicking
// Destroy still leaves the slot back on the freelist (spec.md §7:
// "destructor panic... slot is still returned").
func (p *Pool[T]) Dealloc(b UnsafeBox[T]) {
	entry := b.takeEntry()
	if entry == nil {
		return
	}

	p.withLock(func(inner *poolInner[T]) {
		defer inner.freeEntry(entry)
		destroyIfDestroyable(valueAt[T](entry))
	})
}

// DeallocUnchecked is Dealloc's unchecked-fast counterpart: the caller
// must guarantee b originated from this exact pool.
func (p *Pool[T]) DeallocUnchecked(b UnsafeBox[T]) {
	entry := b.takeEntry()
	if entry == nil {
		return
	}

	p.withLock(func(inner *poolInner[T]) {
		defer inner.fastFreeEntryUnchecked(entry)
		destroyIfDestroyable(valueAt[T](entry))
	})
}

// Forget returns the slot without destructing the value (the value is
// leaked).
func (p *Pool[T]) Forget(b UnsafeBox[T]) {
	entry := b.takeEntry()
	if entry == nil {
		return
	}

	p.withLock(func(inner *poolInner[T]) { inner.freeEntry(entry) })
}

// Take extracts the stored value and returns the slot.
func (p *Pool[T]) Take(b UnsafeBox[T]) T {
	value, entry := b.take()
	if entry == nil {
		return value
	}

	p.withLock(func(inner *poolInner[T]) { inner.freeEntry(entry) })

	return value
}

// Stat returns (used, free, capacity, blocks) diagnostics.
func (p *Pool[T]) Stat() PoolStats {
	var stats PoolStats

	p.withLock(func(inner *poolInner[T]) { stats = inner.stat() })

	return stats
}

// IsAllFree reports whether every entry ever allocated has been freed.
func (p *Pool[T]) IsAllFree() bool {
	var allFree bool

	p.withLock(func(inner *poolInner[T]) { allFree = inner.isAllFree() })

	return allFree
}

// Close releases the pool's blocks. In pooldebug builds it panics if any
// handle is still outstanding; otherwise it frees unconditionally and
// logs a warning when handles were still live.
func (p *Pool[T]) Close() {
	p.withLock(func(inner *poolInner[T]) {
		debugCloseCheck[T](inner, p.cfg)
		inner.closeBlocks()
	})
}

// Leak forgets the pool itself, so its blocks are never freed. Useful
// when a pool's contents are intentionally permanent for the life of the
// process (spec.md §4.4).
func (p *Pool[T]) Leak() {
	p.withLock(func(inner *poolInner[T]) {
		inner.blocksAllocated = 0
		inner.freelist = nil

		for i := range inner.blocks {
			inner.blocks[i] = nil
		}
	})
}
