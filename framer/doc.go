// Package framer reassembles a stream of u64-length-prefixed records out of
// a byte source that only ever offers whatever is immediately available,
// without blocking.
package framer
