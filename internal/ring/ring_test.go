package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_FillsWithoutEviction(t *testing.T) {
	r := New[int](3)

	for i := 1; i <= 3; i++ {
		_, ok := r.Push(i)
		assert.False(t, ok, "push %d should not evict", i)
	}

	assert.Equal(t, []int{1, 2, 3}, r.Items())
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 3, r.Cap())
}

func TestRing_EvictsOldestFirst(t *testing.T) {
	r := New[string](2)
	r.Push("a")
	r.Push("b")

	evicted, ok := r.Push("c")
	require.True(t, ok)
	assert.Equal(t, "a", evicted)

	evicted, ok = r.Push("d")
	require.True(t, ok)
	assert.Equal(t, "b", evicted)

	assert.Equal(t, []string{"c", "d"}, r.Items())
	assert.Equal(t, 2, r.Len())
}

func TestRing_LongRunKeepsNewest(t *testing.T) {
	r := New[int](5)
	var evicted []int
	for i := 0; i < 12; i++ {
		if v, ok := r.Push(i); ok {
			evicted = append(evicted, v)
		}
	}

	assert.Equal(t, []int{7, 8, 9, 10, 11}, r.Items())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, evicted)
}

func TestRing_MinimumCapacity(t *testing.T) {
	r := New[int](0)
	assert.Equal(t, 1, r.Cap())

	r.Push(1)
	evicted, ok := r.Push(2)
	assert.True(t, ok)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, []int{2}, r.Items())
}

func TestRing_Find(t *testing.T) {
	r := New[int](3)
	for _, v := range []int{2, 4, 6, 8} {
		r.Push(v)
	}

	v, ok := r.Find(func(n int) bool { return n%4 == 0 })
	require.True(t, ok)
	assert.Equal(t, 8, v, "newest match wins")

	_, ok = r.Find(func(n int) bool { return n == 2 })
	assert.False(t, ok, "evicted items are gone")
}

func TestRing_EmptyItems(t *testing.T) {
	r := New[int](4)
	assert.Empty(t, r.Items())
	assert.Equal(t, 0, r.Len())
}
