package onsen

import (
	"fmt"
	"runtime"
	"unsafe"

	"go.uber.org/zap"
)

// unsafeBoxState is the heap-allocated indirection UnsafeBox needs so a
// runtime.SetFinalizer can be attached to it: Go has no destructors, so
// the finalizer is the only way to approximate spec.md §4.5's "on drop,
// leak the slot but still run T's destructor" behavior as a best-effort
// backstop (never load-bearing — see spec.md §7 and SPEC_FULL.md §2).
type unsafeBoxState struct {
	entry unsafe.Pointer
}

// UnsafeBox is a thin, lifetime-free handle over one pool entry. It owns
// the value in the entry but not the slot: releasing it without calling
// one of the pool's Dealloc/Forget/Take operations destroys the value (if
// Destroyable) but leaks the slot inside the pool, exactly as spec.md
// §4.5 describes. UnsafeBox is not safe to copy concurrently without
// external synchronization, and copying it (Go has no move-only types)
// violates the single-ownership discipline the type name promises; it is
// the caller's responsibility to treat it as if it could not be copied.
type UnsafeBox[T any] struct {
	state *unsafeBoxState
}

func newUnsafeBox[T any](entry unsafe.Pointer, logger *zap.Logger) UnsafeBox[T] {
	state := &unsafeBoxState{entry: entry}

	runtime.SetFinalizer(state, func(s *unsafeBoxState) {
		if s.entry == nil {
			return
		}

		destroyIfDestroyable(valueAt[T](s.entry))
		logger.Warn("onsen: UnsafeBox garbage collected without being returned to its pool; slot leaked")
	})

	return UnsafeBox[T]{state: state}
}

// IsValid reports whether the box still owns an entry.
func (b UnsafeBox[T]) IsValid() bool {
	return b.state != nil && b.state.entry != nil
}

// Deref returns a pointer to the stored value. Calling it on an
// already-consumed box returns nil.
func (b UnsafeBox[T]) Deref() *T {
	if !b.IsValid() {
		return nil
	}

	return valueAt[T](b.state.entry)
}

func (b UnsafeBox[T]) String() string {
	if !b.IsValid() {
		return "UnsafeBox(<consumed>)"
	}

	return fmt.Sprintf("UnsafeBox(%p)", b.state.entry)
}

// takeEntry relinquishes the entry pointer to the caller and disarms the
// finalizer; it is the only way entry ever transitions back to nil.
func (b UnsafeBox[T]) takeEntry() unsafe.Pointer {
	if b.state == nil {
		return nil
	}

	entry := b.state.entry
	if entry != nil {
		runtime.SetFinalizer(b.state, nil)
	}

	b.state.entry = nil

	return entry
}

// take extracts the value without destructing it and returns both the
// value and the vacated entry pointer.
func (b UnsafeBox[T]) take() (T, unsafe.Pointer) {
	entry := b.takeEntry()
	if entry == nil {
		var zero T
		return zero, nil
	}

	return *valueAt[T](entry), entry
}
