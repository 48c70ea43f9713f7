// Package wire implements a streaming, allocation-free decoder for a
// length-delimited tag/varint wire format, tolerant of fragmented input.
//
// Decoder drives one contiguous buffer. ChunkReader is its cross-chunk
// counterpart, with its own field decoding, for callers (the validator)
// that only have a sequence of borrowed, possibly discontiguous byte ranges
// and still need field-at-a-time access across the boundaries between them.
package wire
