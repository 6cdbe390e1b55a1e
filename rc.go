package onsen

import "unsafe"

// rcRecord is the shared slot payload backing Rc/Weak: a value plus the
// independent strong/weak counts from spec.md §4.6. The slot's backing
// storage outlives the value itself whenever any Weak reference is still
// alive, exactly as in the source the strong count gates the value's
// destructor while the weak count gates the slot's return to the pool.
type rcRecord[T any] struct {
	value  T
	strong int64
	weak   int64
}

// RcOwnerPool is the public, non-leaking wrapper over the shared pool
// engine backing Rc[T]/Weak[T]. Callers never see the rcRecord[T]
// element type the underlying RcPool is actually parameterized over.
type RcOwnerPool[T any] struct {
	engine *RcPool[rcRecord[T]]
}

// NewRcOwnerPool creates a fresh, single-owner Rc pool.
func NewRcOwnerPool[T any](opts ...Option) *RcOwnerPool[T] {
	return &RcOwnerPool[T]{engine: NewRcPool[rcRecord[T]](opts...)}
}

// Clone shares this pool with another owner, the same way RcPool.Clone
// does for the underlying engine.
func (p *RcOwnerPool[T]) Clone() *RcOwnerPool[T] {
	return &RcOwnerPool[T]{engine: p.engine.Clone()}
}

func (p *RcOwnerPool[T]) Close() { p.engine.Close() }

func (p *RcOwnerPool[T]) Stat() PoolStats { return p.engine.Stat() }

// New allocates value with a strong count of one.
func (p *RcOwnerPool[T]) New(value T) Rc[T] {
	entry := p.engine.allocRaw(rcRecord[T]{value: value, strong: 1})

	return Rc[T]{pool: p.engine, entry: entry}
}

// Rc is a single-threaded, reference-counted handle into a pool slot: the
// thin-box strategy of spec.md §4.6, carrying its originating pool
// directly rather than through a type-erased interface.
type Rc[T any] struct {
	pool  *RcPool[rcRecord[T]]
	entry unsafe.Pointer
}

func (r Rc[T]) record() *rcRecord[T] {
	return valueAt[rcRecord[T]](r.entry)
}

// Deref returns a pointer to the shared value.
func (r Rc[T]) Deref() *T {
	return &r.record().value
}

// Clone increments the strong count and returns another handle to the
// same slot.
func (r Rc[T]) Clone() Rc[T] {
	r.record().strong++

	return r
}

func (r Rc[T]) StrongCount() int64 { return r.record().strong }

func (r Rc[T]) WeakCount() int64 { return r.record().weak }

// Downgrade creates a non-owning Weak reference, incrementing the weak
// count.
func (r Rc[T]) Downgrade() Weak[T] {
	r.record().weak++

	return Weak[T]{pool: r.pool, entry: r.entry}
}

// Drop decrements the strong count. At zero the value is destructed; the
// slot itself is only returned to the pool once the weak count has also
// reached zero, so outstanding Weak references never dangle over freed
// storage. The destructor runs inside the pool's lock, immediately
// before the slot would be returned, so a panicking Destroy still leaves
// the slot back on the freelist when no Weak references survive it
// (spec.md §7).
func (r Rc[T]) Drop() {
	rec := r.record()
	rec.strong--

	if rec.strong > 0 {
		return
	}

	r.pool.withLock(func(inner *poolInner[rcRecord[T]]) {
		if rec.weak == 0 {
			defer inner.fastFreeEntryUnchecked(r.entry)
		}

		destroyIfDestroyable(&rec.value)
	})
}
