package lru

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_WorkedEvictionScenario(t *testing.T) {
	c := New[string, string](2)
	c.Insert("k1", "v1")
	c.Insert("k2", "v2")
	_, _ = c.Get("k1")
	_, _ = c.Get("k2")
	c.Insert("k3", "v3")

	_, ok := c.Get("k1")
	assert.False(t, ok)

	v, ok := c.Get("k2")
	require.True(t, ok)
	assert.Equal(t, "v2", v)

	v, ok = c.Get("k3")
	require.True(t, ok)
	assert.Equal(t, "v3", v)
}

func TestCache_InsertRefreshesExistingKey(t *testing.T) {
	c := New[string, int](2)
	c.Insert("a", 1)
	c.Insert("a", 2)
	assert.Equal(t, 1, c.Len())

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_GetPromotesToFrontPreventingEviction(t *testing.T) {
	c := New[string, int](2)
	c.Insert("a", 1)
	c.Insert("b", 2)
	_, _ = c.Get("a") // a is now most-recently-used; b is LRU
	c.Insert("c", 3)  // evicts b

	_, ok := c.Get("b")
	assert.False(t, ok)

	_, ok = c.Get("a")
	assert.True(t, ok)

	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_ZeroCapacityNeverRetains(t *testing.T) {
	c := New[string, int](0)
	c.Insert("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
