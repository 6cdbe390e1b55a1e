package onsen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRcCloneIncrementsStrong(t *testing.T) {
	pool := NewRcOwnerPool[string]()

	r1 := pool.New("hi")
	assert.Equal(t, int64(1), r1.StrongCount())

	r2 := r1.Clone()
	assert.Equal(t, int64(2), r1.StrongCount())
	assert.Equal(t, int64(2), r2.StrongCount())

	r1.Drop()
	assert.Equal(t, int64(1), r2.StrongCount())

	r2.Drop()
	assert.True(t, pool.engine.IsAllFree())
}

func TestRcDropDestroysAtZeroStrong(t *testing.T) {
	pool := NewRcOwnerPool[destroyCounter]()
	count := 0

	r := pool.New(destroyCounter{n: &count})
	r.Drop()

	assert.Equal(t, 1, count)
}

func TestWeakUpgradeFailsAfterLastStrongDropped(t *testing.T) {
	pool := NewRcOwnerPool[int]()

	r := pool.New(9)
	w := r.Downgrade()

	r.Drop()

	_, ok := w.Upgrade()
	assert.False(t, ok)

	w.Drop()
	assert.True(t, pool.engine.IsAllFree())
}

func TestWeakUpgradeSucceedsWhileStrongAlive(t *testing.T) {
	pool := NewRcOwnerPool[int]()

	r := pool.New(9)
	w := r.Downgrade()

	upgraded, ok := w.Upgrade()
	require.True(t, ok)
	assert.Equal(t, 9, *upgraded.Deref())
	assert.Equal(t, int64(2), r.StrongCount())

	upgraded.Drop()
	r.Drop()
	w.Drop()

	assert.True(t, pool.engine.IsAllFree())
}

func TestRcDropReturnsSlotEvenIfDestroyPanics(t *testing.T) {
	pool := NewRcOwnerPool[destroyPanicker]()

	r := pool.New(destroyPanicker{})

	func() {
		defer func() { recover() }()
		r.Drop()
	}()

	assert.True(t, pool.engine.IsAllFree(), "slot must be returned even though Destroy panicked")
}

func TestWeakKeepsSlotAliveUntilBothCountsZero(t *testing.T) {
	pool := NewRcOwnerPool[int]()

	r := pool.New(1)
	w := r.Downgrade()

	r.Drop()
	assert.False(t, pool.engine.IsAllFree(), "slot stays reserved while a Weak reference survives")

	w.Drop()
	assert.True(t, pool.engine.IsAllFree())
}
