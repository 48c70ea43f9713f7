// Package lru implements a bounded, recency-ordered cache: Get promotes an
// entry to most-recently-used, Insert refreshes or adds an entry and
// evicts the least-recently-used one once capacity is exceeded.
package lru
