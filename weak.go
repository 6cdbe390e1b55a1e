package onsen

import "unsafe"

// Weak is a non-owning companion to Rc: it keeps the slot's storage alive
// without keeping the value alive, per spec.md §4.6. Upgrading a Weak
// after the last strong reference dropped fails cleanly instead of
// observing a destructed value.
type Weak[T any] struct {
	pool  *RcPool[rcRecord[T]]
	entry unsafe.Pointer
}

func (w Weak[T]) record() *rcRecord[T] {
	return valueAt[rcRecord[T]](w.entry)
}

// Upgrade attempts to produce a new strong Rc. It fails once the strong
// count has already reached zero.
func (w Weak[T]) Upgrade() (Rc[T], bool) {
	rec := w.record()
	if rec.strong == 0 {
		return Rc[T]{}, false
	}

	rec.strong++

	return Rc[T]{pool: w.pool, entry: w.entry}, true
}

// Clone increments the weak count and returns another Weak to the same
// slot.
func (w Weak[T]) Clone() Weak[T] {
	w.record().weak++

	return w
}

// Drop decrements the weak count. Once both the strong and weak counts
// reach zero the slot is returned to the pool.
func (w Weak[T]) Drop() {
	rec := w.record()
	rec.weak--

	if rec.weak == 0 && rec.strong == 0 {
		w.pool.freeRawUnchecked(w.entry)
	}
}
