//go:build !pooldebug

package onsen

import "go.uber.org/zap"

// debugCloseCheck is the release-build counterpart of the pooldebug
// assertion: spec.md §7 prefers "size over safety in release", so a pool
// closed with live handles is logged, not fatal, and its blocks are
// freed unconditionally.
func debugCloseCheck[T any](p *poolInner[T], cfg *Config) {
	if !p.isAllFree() {
		cfg.Logger.Warn("onsen: pool closed with live handles outstanding; blocks freed unconditionally",
			zap.Stringer("pool_id", p.id))
	}
}
