package onsen

import "unsafe"

// scRecord is Sc's slot payload: a single strong count and no weak count,
// one word smaller per slot than rcRecord (spec.md §4.6's "Sc is Rc
// without Weak support, for callers that never need it").
type scRecord[T any] struct {
	value  T
	strong int64
}

// ScOwnerPool is the public, non-leaking wrapper over the shared pool
// engine backing Sc[T].
type ScOwnerPool[T any] struct {
	engine *RcPool[scRecord[T]]
}

// NewScOwnerPool creates a fresh, single-owner Sc pool.
func NewScOwnerPool[T any](opts ...Option) *ScOwnerPool[T] {
	return &ScOwnerPool[T]{engine: NewRcPool[scRecord[T]](opts...)}
}

func (p *ScOwnerPool[T]) Clone() *ScOwnerPool[T] {
	return &ScOwnerPool[T]{engine: p.engine.Clone()}
}

func (p *ScOwnerPool[T]) Close() { p.engine.Close() }

func (p *ScOwnerPool[T]) Stat() PoolStats { return p.engine.Stat() }

// New allocates value with a strong count of one.
func (p *ScOwnerPool[T]) New(value T) Sc[T] {
	entry := p.engine.allocRaw(scRecord[T]{value: value, strong: 1})

	return Sc[T]{pool: p.engine, entry: entry}
}

// Sc is a single-threaded, strong-count-only handle into a pool slot.
type Sc[T any] struct {
	pool  *RcPool[scRecord[T]]
	entry unsafe.Pointer
}

func (s Sc[T]) record() *scRecord[T] {
	return valueAt[scRecord[T]](s.entry)
}

// Deref returns a pointer to the shared value.
func (s Sc[T]) Deref() *T {
	return &s.record().value
}

// Clone increments the strong count and returns another handle to the
// same slot.
func (s Sc[T]) Clone() Sc[T] {
	s.record().strong++

	return s
}

func (s Sc[T]) StrongCount() int64 { return s.record().strong }

// Drop decrements the strong count; at zero the value is destructed and
// the slot is returned to the pool. The destructor runs inside the
// pool's lock, immediately before the slot is returned, so a panicking
// Destroy still leaves the slot back on the freelist (spec.md §7).
func (s Sc[T]) Drop() {
	rec := s.record()
	rec.strong--

	if rec.strong > 0 {
		return
	}

	s.pool.withLock(func(inner *poolInner[scRecord[T]]) {
		defer inner.fastFreeEntryUnchecked(s.entry)
		destroyIfDestroyable(&rec.value)
	})
}
