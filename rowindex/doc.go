// Package rowindex represents a subset of a half-open row range
// [start, end) lazily, as one of three shapes — implicit "all rows", a
// sorted vector of row ids, or a dense bit vector — converting between
// them only when a consumer forces a particular shape.
package rowindex
