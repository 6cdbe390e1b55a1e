//go:build pooldebug

package onsen

// debugCloseCheck asserts no handles remain live when a pool closes.
// Gated behind the pooldebug build tag, named after the debug-tracked
// pool reference in the example pack (//go:build pooldebug), matching
// spec.md §7's "in debug builds, the pool's drop asserts is_all_free and
// panics otherwise".
func debugCloseCheck[T any](p *poolInner[T], cfg *Config) {
	if !p.isAllFree() {
		panic(newPoolError(ErrPoolNotEmpty, "pool %s closed with live handles outstanding", p.id))
	}
}
