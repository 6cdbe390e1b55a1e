package onsen

// Destroyable is Go's stand-in for spec.md's "run T's destructor": Go
// values have no implicit destructors, so a type that owns external
// resources (file descriptors, other handles) and needs cleanup before
// its slot returns to the freelist implements Destroy.
type Destroyable interface {
	Destroy()
}

// destroyIfDestroyable calls Destroy on v if T (or *T) implements
// Destroyable. Panics from Destroy propagate to the caller; the slot is
// still returned to the freelist by the deferred free in the caller,
// matching spec.md §7's "destructor panic... slot is still returned".
func destroyIfDestroyable[T any](v *T) {
	if d, ok := any(v).(Destroyable); ok {
		d.Destroy()
	}
}
