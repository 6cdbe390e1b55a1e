package onsen

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryLayout(t *testing.T) {
	t.Run("AtLeastLinkSized", func(t *testing.T) {
		size, align := entryLayout[byte]()
		assert.GreaterOrEqual(t, size, linkSize)
		assert.GreaterOrEqual(t, align, linkAlign)
		assert.GreaterOrEqual(t, align, uintptr(8))
	})

	t.Run("FitsTheValue", func(t *testing.T) {
		type big struct{ a, b, c int64 }
		size, _ := entryLayout[big]()
		assert.GreaterOrEqual(t, size, unsafe.Sizeof(big{}))
	})
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uintptr(8), alignUp(1, 8))
	assert.Equal(t, uintptr(8), alignUp(8, 8))
	assert.Equal(t, uintptr(16), alignUp(9, 8))
	assert.Equal(t, uintptr(0), alignUp(0, 8))
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[uintptr]uintptr{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 64: 64, 65: 128}
	for in, want := range cases {
		assert.Equal(t, want, nextPowerOfTwo(in), "input %d", in)
	}
}

func TestFreelistSingleNode(t *testing.T) {
	buf := make([]byte, linkSize)
	node := unsafe.Pointer(&buf[0])

	initFreeNode(node)

	newHead, ok := removeFreeNode(node)
	require.False(t, ok)
	assert.Nil(t, newHead)
}

func TestFreelistInsertAndRemove(t *testing.T) {
	const n = 5
	bufs := make([][]byte, n)
	nodes := make([]unsafe.Pointer, n)

	for i := 0; i < n; i++ {
		bufs[i] = make([]byte, linkSize)
		nodes[i] = unsafe.Pointer(&bufs[i][0])
	}

	head := nodes[0]
	initFreeNode(head)

	for i := 1; i < n; i++ {
		insertFreeNode(head, nodes[i])
		head = nodes[i]
	}

	seen := map[unsafe.Pointer]bool{}
	cur := head
	for i := 0; i < n; i++ {
		seen[cur] = true
		cur = linkAt(cur).next
	}

	assert.Equal(t, n, len(seen))
	for _, node := range nodes {
		assert.True(t, seen[node])
	}

	assert.Equal(t, head, cur)
}

func TestRemoveFreeNodeSplices(t *testing.T) {
	const n = 3
	bufs := make([][]byte, n)
	nodes := make([]unsafe.Pointer, n)

	for i := 0; i < n; i++ {
		bufs[i] = make([]byte, linkSize)
		nodes[i] = unsafe.Pointer(&bufs[i][0])
	}

	initFreeNode(nodes[0])
	insertAfter(nodes[0], nodes[1])
	insertAfter(nodes[1], nodes[2])

	newHead, ok := removeFreeNode(nodes[1])
	require.True(t, ok)
	assert.True(t, newHead == nodes[0] || newHead == nodes[2])

	assert.Equal(t, nodes[2], linkAt(nodes[0]).next)
	assert.Equal(t, nodes[0], linkAt(nodes[2]).next)
}
