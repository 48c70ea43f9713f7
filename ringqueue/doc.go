// Package ringqueue implements a flat, power-of-two-sized circular buffer
// with 64-bit monotonic head/tail cursors.
//
// It offers O(1) amortized push at the tail and pop at the head, random
// access by logical index, and a generation counter that lets anything that
// cached an index across a mutation detect that it is stale.
package ringqueue
