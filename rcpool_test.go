package onsen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRcPoolAllocDealloc(t *testing.T) {
	p := NewRcPool[int]()

	b := p.Alloc(3)
	assert.Equal(t, 3, *b.Deref())

	p.Dealloc(b)
	assert.True(t, p.IsAllFree())
}

func TestRcPoolCloneSharesCore(t *testing.T) {
	p1 := NewRcPool[int]()
	p2 := p1.Clone()

	b := p1.Alloc(1)
	stats := p2.Stat()
	assert.Equal(t, 1, stats.Used)

	p1.Dealloc(b)
}

func TestRcPoolCloseWaitsForLastReference(t *testing.T) {
	p1 := NewRcPool[int]()
	p2 := p1.Clone()

	b := p1.Alloc(1)
	p1.Close()
	stats := p2.Stat()
	assert.Equal(t, 1, stats.Blocks)

	p2.Dealloc(b)
	p2.Close()
}

func TestRcPoolReentrantLockPanics(t *testing.T) {
	p := NewRcPool[int]()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		perr, ok := r.(*PoolError)
		require.True(t, ok)
		assert.Equal(t, ErrReentrantLock, perr.Kind)
	}()

	p.withLock(func(inner *poolInner[int]) {
		p.withLock(func(inner2 *poolInner[int]) {})
	})
}
