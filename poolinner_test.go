package onsen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolInnerAllocFreeRoundTrip(t *testing.T) {
	cfg := defaultConfig()
	p := newPoolInner[int](cfg)

	a := p.allocEntry()
	*valueAt[int](a) = 42

	stats := p.stat()
	assert.Equal(t, 1, stats.Used)
	assert.Equal(t, 0, stats.Free)

	p.freeEntry(a)

	stats = p.stat()
	assert.Equal(t, 0, stats.Used)
	assert.Equal(t, 1, stats.Free)
	assert.True(t, p.isAllFree())
}

func TestPoolInnerFreelistReuse(t *testing.T) {
	cfg := defaultConfig()
	p := newPoolInner[int](cfg)

	a := p.allocEntry()
	p.freeEntry(a)

	b := p.allocEntry()
	assert.Equal(t, a, b, "freed entry should be reused before bump-allocating a new one")
}

func TestPoolInnerCrossPoolFreePanics(t *testing.T) {
	cfg := defaultConfig()
	p1 := newPoolInner[int](cfg)
	p2 := newPoolInner[int](cfg)

	a := p1.allocEntry()

	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			perr, ok := r.(*PoolError)
			require.True(t, ok)
			assert.Equal(t, ErrCrossPoolFree, perr.Kind)
		}()
		p2.freeEntry(a)
	}()
}

func TestPoolInnerSetMinEntriesAfterAllocPanics(t *testing.T) {
	cfg := defaultConfig()
	p := newPoolInner[int](cfg)

	p.allocEntry()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		perr, ok := r.(*PoolError)
		require.True(t, ok)
		assert.Equal(t, ErrMinEntriesAfterAlloc, perr.Kind)
	}()

	p.setMinEntries(128)
}

func TestPoolInnerGrowsAcrossBlocks(t *testing.T) {
	cfg := defaultConfig()
	p := newPoolInner[int](cfg)
	p.setMinEntries(minBlockEntries)

	total := minBlockEntries*2 + 1
	for i := 0; i < total; i++ {
		p.allocEntry()
	}

	assert.GreaterOrEqual(t, p.blocksAllocated, 2)
}

func TestPoolInnerCloseBlocks(t *testing.T) {
	cfg := defaultConfig()
	p := newPoolInner[int](cfg)

	p.allocEntry()
	p.closeBlocks()

	assert.Equal(t, 0, p.blocksAllocated)
	assert.Nil(t, p.freelist)
}
