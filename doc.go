// Package onsen is a typed object-pool allocator.
//
// A Pool[T] carves T values out of exponentially growing backing blocks
// and hands back handles that dereference to T and return their storage
// to the pool once released. Free and re-allocate are O(1); addresses
// handed out by a pool never move for the pool's lifetime.
//
// Three pool variants cover the common concurrency postures: Pool is a
// plain, single-owner pool; RcPool is a single-threaded pool shared by
// clone; ArcPool is a mutex-guarded pool safe for concurrent use. All
// three share the same allocation algorithm, implemented once in the
// internal poolInner type.
package onsen
