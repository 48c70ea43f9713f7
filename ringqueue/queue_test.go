package ringqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushPopSizeLaw(t *testing.T) {
	q := NewSize[int](4)
	pushes, pops := 0, 0

	for i := 0; i < 100; i++ {
		q.PushBack(i)
		pushes++
		if i%3 == 0 {
			_, ok := q.PopFront()
			require.True(t, ok)
			pops++
		}
	}

	assert.Equal(t, pushes-pops, q.Len())
}

func TestQueue_GrowPreservesOrder(t *testing.T) {
	q := NewSize[int](2)
	var want []int
	for i := 0; i < 50; i++ {
		q.PushBack(i)
		want = append(want, i)
	}
	assert.Equal(t, want, q.Slice())
	assert.True(t, q.Cap() >= 50)
}

func TestQueue_GrowAfterPartialDrain(t *testing.T) {
	q := NewSize[int](4)
	q.PushBack(1)
	q.PushBack(2)
	q.PushBack(3)
	q.PushBack(4)
	v, ok := q.PopFront()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = q.PopFront()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	// begin/end now both wrapped into the middle of the backing array;
	// pushing past capacity must still grow and preserve order.
	q.PushBack(5)
	q.PushBack(6)
	q.PushBack(7) // triggers growth: live set is [3,4,5,6], full at cap 4

	assert.Equal(t, []int{3, 4, 5, 6, 7}, q.Slice())
}

func TestQueue_EraseFront(t *testing.T) {
	q := NewSize[int](8)
	for i := 0; i < 5; i++ {
		q.PushBack(i)
	}
	q.EraseFront(2)
	assert.Equal(t, []int{2, 3, 4}, q.Slice())
	assert.Equal(t, 3, q.Len())

	q.EraseFront(100) // past length: clears without panic
	assert.Equal(t, 0, q.Len())
	assert.True(t, q.Empty())
}

func TestQueue_FrontBackAt(t *testing.T) {
	q := New[string]()
	q.PushBack("a")
	q.PushBack("b")
	q.PushBack("c")
	assert.Equal(t, "a", q.Front())
	assert.Equal(t, "c", q.Back())
	assert.Equal(t, "b", q.At(1))
}

func TestQueue_PopEmpty(t *testing.T) {
	q := New[int]()
	_, ok := q.PopFront()
	assert.False(t, ok)
}

func TestQueue_GenerationChangesOnMutation(t *testing.T) {
	q := New[int]()
	g0 := q.Generation()
	q.PushBack(1)
	g1 := q.Generation()
	assert.NotEqual(t, g0, g1)
	q.PopFront()
	g2 := q.Generation()
	assert.NotEqual(t, g1, g2)
}

func TestQueue_NewSizePanicsOnNonPowerOfTwo(t *testing.T) {
	assert.Panics(t, func() {
		NewSize[int](3)
	})
	assert.Panics(t, func() {
		NewSize[int](0)
	})
}

func TestQueue_AtOutOfRangePanics(t *testing.T) {
	q := New[int]()
	assert.Panics(t, func() {
		q.At(0)
	})
}
