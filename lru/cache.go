package lru

import "container/list"

type entry[K comparable, V any] struct {
	key K
	val V
}

// Cache is a bounded map keyed on K holding values of type V, ordered by
// recency of use. Capacity is fixed at construction.
type Cache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = most recently used
}

// New returns a Cache with the given capacity. A capacity of 0 means every
// Insert immediately evicts (the cache never retains anything).
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Get returns k's value and moves it to the front (most recently used). The
// second return is false if k is absent.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	el, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).val, true
}

// Insert inserts or refreshes k's value, moving it to the front. If this
// pushes the cache over capacity, the least-recently-used entry is evicted.
func (c *Cache[K, V]) Insert(k K, v V) {
	if el, ok := c.items[k]; ok {
		el.Value.(*entry[K, V]).val = v
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry[K, V]{key: k, val: v})
	c.items[k] = el

	if c.order.Len() > c.capacity {
		tail := c.order.Back()
		if tail != nil {
			c.order.Remove(tail)
			delete(c.items, tail.Value.(*entry[K, V]).key)
		}
	}
}

// Len returns the number of entries currently present.
func (c *Cache[K, V]) Len() int {
	return c.order.Len()
}
