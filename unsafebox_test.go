package onsen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsafeBoxTakeEntryDisarms(t *testing.T) {
	p := NewPool[int]()
	b := p.Alloc(9)

	entry := b.takeEntry()
	assert.NotNil(t, entry)
	assert.False(t, b.IsValid())

	assert.Nil(t, b.takeEntry(), "taking twice yields nil the second time")

	p.inner.freeEntry(entry)
}

func TestUnsafeBoxTakeValue(t *testing.T) {
	p := NewPool[string]()
	b := p.Alloc("abc")

	v, entry := b.take()
	assert.Equal(t, "abc", v)
	assert.NotNil(t, entry)

	p.inner.freeEntry(entry)
}

func TestUnsafeBoxStringer(t *testing.T) {
	p := NewPool[int]()
	b := p.Alloc(1)

	assert.Contains(t, b.String(), "UnsafeBox")

	p.Dealloc(b)
	assert.Equal(t, "UnsafeBox(<consumed>)", b.String())
}
