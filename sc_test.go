package onsen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScCloneAndDrop(t *testing.T) {
	pool := NewScOwnerPool[string]()

	s1 := pool.New("hi")
	assert.Equal(t, int64(1), s1.StrongCount())

	s2 := s1.Clone()
	assert.Equal(t, int64(2), s1.StrongCount())

	s1.Drop()
	assert.Equal(t, int64(1), s2.StrongCount())

	s2.Drop()
	assert.True(t, pool.engine.IsAllFree())
}

func TestScDropDestroysAtZero(t *testing.T) {
	pool := NewScOwnerPool[destroyCounter]()
	count := 0

	s := pool.New(destroyCounter{n: &count})
	s.Drop()

	assert.Equal(t, 1, count)
	assert.True(t, pool.engine.IsAllFree())
}

func TestScDropReturnsSlotEvenIfDestroyPanics(t *testing.T) {
	pool := NewScOwnerPool[destroyPanicker]()

	s := pool.New(destroyPanicker{})

	func() {
		defer func() { recover() }()
		s.Drop()
	}()

	assert.True(t, pool.engine.IsAllFree(), "slot must be returned even though Destroy panicked")
}
