package onsen

import "unsafe"

// poolHandle type-erases which concrete pool engine a boxRecord came
// from, so Box[T] itself carries no pool type parameter: the fat-box
// embedding strategy of spec.md §4.6, contrasted with Rc/Sc's thin
// handle-carried pool reference. The pool that produced the entry is the
// only one that can ever free it, so no address check is needed on the
// free path.
type poolHandle interface {
	freeUnchecked(entry unsafe.Pointer)
	// destroyAndFree runs destroy while the pool's lock is held, freeing
	// the slot immediately afterward even if destroy panics, mirroring
	// original_source/src/poolapi.rs's manually_drop-then-free_entry
	// sequencing inside with_lock.
	destroyAndFree(entry unsafe.Pointer, destroy func())
}

type boxRecord[T any] struct {
	value  T
	handle poolHandle
}

type rcBoxHandle[T any] struct {
	engine *RcPool[boxRecord[T]]
}

func (h rcBoxHandle[T]) freeUnchecked(entry unsafe.Pointer) {
	h.engine.freeRawUnchecked(entry)
}

func (h rcBoxHandle[T]) destroyAndFree(entry unsafe.Pointer, destroy func()) {
	h.engine.withLock(func(inner *poolInner[boxRecord[T]]) {
		defer inner.fastFreeEntryUnchecked(entry)
		destroy()
	})
}

type arcBoxHandle[T any] struct {
	engine *ArcPool[boxRecord[T]]
}

func (h arcBoxHandle[T]) freeUnchecked(entry unsafe.Pointer) {
	h.engine.freeRawUnchecked(entry)
}

func (h arcBoxHandle[T]) destroyAndFree(entry unsafe.Pointer, destroy func()) {
	h.engine.withLock(func(inner *poolInner[boxRecord[T]]) {
		defer inner.fastFreeEntryUnchecked(entry)
		destroy()
	})
}

// Box owns exactly one value. Unlike BasicBox it carries its originating
// pool inside the entry itself, so Drop needs no pool argument; unlike
// UnsafeBox it is always backed by a shared (Rc/Arc) engine, never the
// plain single-owner Pool.
type Box[T any] struct {
	entry unsafe.Pointer
}

func (b Box[T]) record() *boxRecord[T] {
	return valueAt[boxRecord[T]](b.entry)
}

// Deref returns a pointer to the owned value.
func (b Box[T]) Deref() *T {
	return &b.record().value
}

// Drop destructs the value and returns the slot to whichever pool
// produced it. The destructor runs inside that pool's lock, immediately
// before the slot is returned, so a panicking Destroy still leaves the
// slot back on the freelist (spec.md §7).
func (b Box[T]) Drop() {
	rec := b.record()
	rec.handle.destroyAndFree(b.entry, func() { destroyIfDestroyable(&rec.value) })
}

// Take extracts the value without destructing it and returns the slot to
// whichever pool produced it (spec.md §8's Box::into_inner).
func (b Box[T]) Take() T {
	rec := b.record()
	value := rec.value
	rec.handle.freeUnchecked(b.entry)

	return value
}

// Forget returns the slot without destructing the value (the value is
// leaked), mirroring Box::forget.
func (b Box[T]) Forget() {
	b.record().handle.freeUnchecked(b.entry)
}

// BoxPool is a single-threaded Box[T] source.
type BoxPool[T any] struct {
	engine *RcPool[boxRecord[T]]
}

// NewBoxPool creates a fresh single-threaded Box pool.
func NewBoxPool[T any](opts ...Option) *BoxPool[T] {
	return &BoxPool[T]{engine: NewRcPool[boxRecord[T]](opts...)}
}

func (p *BoxPool[T]) Clone() *BoxPool[T] {
	return &BoxPool[T]{engine: p.engine.Clone()}
}

func (p *BoxPool[T]) Close() { p.engine.Close() }

func (p *BoxPool[T]) Stat() PoolStats { return p.engine.Stat() }

// New allocates value and wraps it in a Box carrying its own pool handle.
func (p *BoxPool[T]) New(value T) Box[T] {
	entry := p.engine.allocRaw(boxRecord[T]{value: value, handle: rcBoxHandle[T]{engine: p.engine}})

	return Box[T]{entry: entry}
}

// ArcBoxPool is the thread-safe counterpart of BoxPool.
type ArcBoxPool[T any] struct {
	engine *ArcPool[boxRecord[T]]
}

// NewArcBoxPool creates a fresh thread-safe Box pool.
func NewArcBoxPool[T any](opts ...Option) *ArcBoxPool[T] {
	return &ArcBoxPool[T]{engine: NewArcPool[boxRecord[T]](opts...)}
}

func (p *ArcBoxPool[T]) Clone() *ArcBoxPool[T] {
	return &ArcBoxPool[T]{engine: p.engine.Clone()}
}

func (p *ArcBoxPool[T]) Close() { p.engine.Close() }

func (p *ArcBoxPool[T]) Stat() PoolStats { return p.engine.Stat() }

func (p *ArcBoxPool[T]) IsPoisoned() bool { return p.engine.IsPoisoned() }

// New allocates value and wraps it in a Box carrying its own pool handle.
func (p *ArcBoxPool[T]) New(value T) Box[T] {
	entry := p.engine.allocRaw(boxRecord[T]{value: value, handle: arcBoxHandle[T]{engine: p.engine}})

	return Box[T]{entry: entry}
}
