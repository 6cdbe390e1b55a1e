package onsen

import (
	"unsafe"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// numBlocks bounds the block array. Byte capacity doubles every block,
// so 44 blocks exceed any plausible address-space usage even for
// single-byte entries (spec.md §3).
const numBlocks = 44

// poolInner is the algorithmic core shared by every pool variant. It
// owns the blocks, the freelist and the size configuration, and exposes
// the allocation/deallocation primitives over raw entry pointers.
// Grounded almost one-to-one on original_source/src/poolinner.rs.
type poolInner[T any] struct {
	id              uuid.UUID
	blocks          [numBlocks]*block[T]
	blocksAllocated int
	minEntries      int
	freelist        unsafe.Pointer
	cfg             *Config
}

// PoolStats reports diagnostic counts over a pool, grounded in the
// teacher's PoolStats/PoolInfo shape (internal/allocator/pool.go).
type PoolStats struct {
	Used     int
	Free     int
	Capacity int
	Blocks   int
}

func newPoolInner[T any](cfg *Config) *poolInner[T] {
	return &poolInner[T]{
		id:         uuid.New(),
		minEntries: cfg.MinEntries,
		cfg:        cfg,
	}
}

// setMinEntries sets the first-block capacity hint. Panics if the first
// block already exists, per spec.md §4.3/§7.
func (p *poolInner[T]) setMinEntries(n int) {
	if p.blocksAllocated > 0 {
		panic(newPoolError(ErrMinEntriesAfterAlloc,
			"SetMinEntries called after pool %s already allocated its first block", p.id))
	}

	p.minEntries = n
}

// allocEntry returns a pointer to storage for one T: popped from the
// freelist if non-empty, otherwise bump-allocated from the current
// block, growing the block array first if necessary.
func (p *poolInner[T]) allocEntry() unsafe.Pointer {
	if p.freelist != nil {
		entry := p.freelist

		newHead, ok := removeFreeNode(entry)
		if ok {
			p.freelist = newHead
		} else {
			p.freelist = nil
		}

		return entry
	}

	if p.blocksAllocated == 0 {
		p.blocks[0] = newFirstBlock[T](p.minEntries, p.cfg)
		p.blocksAllocated = 1

		p.cfg.Logger.Debug("onsen: first block allocated",
			zap.Stringer("pool_id", p.id), zap.Int("capacity", p.blocks[0].capacity))
	} else if p.blocks[p.blocksAllocated-1].isFull() {
		if p.blocksAllocated >= numBlocks {
			panic(newPoolError(ErrAllocationFailure, "pool %s exhausted all %d blocks", p.id, numBlocks))
		}

		prev := p.blocks[p.blocksAllocated-1]
		p.blocks[p.blocksAllocated] = newNextBlock[T](prev, p.cfg)
		p.blocksAllocated++

		p.cfg.Logger.Debug("onsen: grew pool",
			zap.Stringer("pool_id", p.id),
			zap.Int("block_index", p.blocksAllocated-1),
			zap.Int("capacity", p.blocks[p.blocksAllocated-1].capacity))
	}

	return p.blocks[p.blocksAllocated-1].extend()
}

// freeEntry is the address-checked return path: it scans the owned
// blocks newest-first to confirm p belongs to this pool before splicing
// it into the freelist. Panics with ErrCrossPoolFree otherwise.
func (p *poolInner[T]) freeEntry(entry unsafe.Pointer) {
	if !p.ownsEntry(entry) {
		panic(newPoolError(ErrCrossPoolFree, "entry %p does not belong to pool %s", entry, p.id))
	}

	p.linkFree(entry)
}

// fastFreeEntryUnchecked skips the ownership scan; the caller must
// guarantee entry belongs to this pool.
func (p *poolInner[T]) fastFreeEntryUnchecked(entry unsafe.Pointer) {
	p.linkFree(entry)
}

func (p *poolInner[T]) linkFree(entry unsafe.Pointer) {
	if p.freelist != nil {
		insertFreeNode(p.freelist, entry)
	} else {
		initFreeNode(entry)
	}

	p.freelist = entry
}

func (p *poolInner[T]) ownsEntry(entry unsafe.Pointer) bool {
	for i := p.blocksAllocated - 1; i >= 0; i-- {
		if p.blocks[i].containsEntry(entry) {
			return true
		}
	}

	return false
}

// reserved returns (used+free, capacity) across all owned blocks.
func (p *poolInner[T]) reserved() (used, capacity int) {
	for i := 0; i < p.blocksAllocated; i++ {
		u, c := p.blocks[i].reserved()
		used += u
		capacity += c
	}

	return used, capacity
}

func (p *poolInner[T]) freelistLen() int {
	if p.freelist == nil {
		return 0
	}

	n := 1
	start := p.freelist
	cur := linkAt(start).next

	for cur != start {
		n++
		cur = linkAt(cur).next
	}

	return n
}

// stat walks the freelist, so it is relatively expensive; it mirrors
// original_source/src/poolinner.rs's own documented cost.
func (p *poolInner[T]) stat() PoolStats {
	reserved, capacity := p.reserved()
	free := p.freelistLen()

	return PoolStats{
		Used:     reserved - free,
		Free:     free,
		Capacity: capacity,
		Blocks:   p.blocksAllocated,
	}
}

func (p *poolInner[T]) isAllFree() bool {
	return p.stat().Used == 0
}

// closeBlocks releases every owned block's backing memory. Go's garbage
// collector reclaims plain make([]byte)-backed blocks on its own; this
// matters only for mmap-backed blocks, which must be explicitly
// unmapped.
func (p *poolInner[T]) closeBlocks() {
	for i := 0; i < p.blocksAllocated; i++ {
		p.blocks[i].close()
		p.blocks[i] = nil
	}

	p.blocksAllocated = 0
	p.freelist = nil
}
