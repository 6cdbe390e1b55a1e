package onsen

// BasicBox is a lifetime-bound safe wrapper over UnsafeBox (spec.md
// §4.5). Rust encodes the borrow of the originating Pool as a phantom
// lifetime parameter at zero runtime cost; Go has no lifetimes, so the
// borrow is modeled the same way spec.md's own interface describes it:
// BasicBox never stores the pool, and every recovery method takes the
// originating *Pool[T] explicitly, exactly mirroring
// BasicBox::drop(self, &pool) / ::take(self, &pool) / ::forget(self,
// &pool) in the source. Misuse (passing the wrong pool) is not caught at
// compile time the way a borrow checker would catch it, but it is caught
// at runtime by Pool's address-checked Dealloc/Forget/Take paths.
type BasicBox[T any] struct {
	inner UnsafeBox[T]
}

// NewBasicBox allocates value in pool and wraps the resulting handle.
func NewBasicBox[T any](value T, pool *Pool[T]) BasicBox[T] {
	return BasicBox[T]{inner: pool.Alloc(value)}
}

// Deref returns a pointer to the stored value.
func (b BasicBox[T]) Deref() *T {
	return b.inner.Deref()
}

// Drop destructs the value and returns the slot to pool.
func (b BasicBox[T]) Drop(pool *Pool[T]) {
	pool.Dealloc(b.inner)
}

// DropUnchecked is Drop's unchecked-fast counterpart.
func (b BasicBox[T]) DropUnchecked(pool *Pool[T]) {
	pool.DeallocUnchecked(b.inner)
}

// Take extracts the value and returns the slot to pool.
func (b BasicBox[T]) Take(pool *Pool[T]) T {
	return pool.Take(b.inner)
}

// Forget returns the slot to pool without destructing the value.
func (b BasicBox[T]) Forget(pool *Pool[T]) {
	pool.Forget(b.inner)
}
