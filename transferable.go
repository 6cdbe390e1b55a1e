package onsen

import "sync/atomic"

// TransferablePool wraps a Pool[T] in an acquire/release handoff
// protocol: at most one goroutine may hold it at a time, but which
// goroutine that is can change over the pool's lifetime, unlike Pool
// itself which spec.md treats as permanently single-owner. This is the
// supplemental "single-thread-transferable pool" noted but not
// specified in spec.md §7; it is additive and never consulted by the
// core Pool/RcPool/ArcPool state machine.
type TransferablePool[T any] struct {
	pool  *Pool[T]
	owned atomic.Bool
}

// NewTransferablePool creates an unacquired transferable pool.
func NewTransferablePool[T any](opts ...Option) *TransferablePool[T] {
	return &TransferablePool[T]{pool: NewPool[T](opts...)}
}

// Acquire claims exclusive ownership for the calling goroutine and
// returns the underlying pool. Panics with ErrPoolOwnership if the pool is
// already held, whether by another goroutine or by the caller.
func (p *TransferablePool[T]) Acquire() *Pool[T] {
	if !p.owned.CompareAndSwap(false, true) {
		panic(newPoolError(ErrPoolOwnership, "TransferablePool acquired while already held"))
	}

	return p.pool
}

// Release relinquishes ownership so a different goroutine may Acquire
// it. Panics with ErrPoolOwnership if the pool was not currently held.
func (p *TransferablePool[T]) Release() {
	if !p.owned.CompareAndSwap(true, false) {
		panic(newPoolError(ErrPoolOwnership, "TransferablePool released without being acquired"))
	}
}

// IsAcquired reports whether some goroutine currently holds the pool.
func (p *TransferablePool[T]) IsAcquired() bool {
	return p.owned.Load()
}
