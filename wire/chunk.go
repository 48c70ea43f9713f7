package wire

// Chunk is one borrowed byte range within a ChunkSequence. It does not own
// Data; the caller's buffer must outlive any Field derived from it.
type Chunk struct {
	Data []byte
}

// ChunkSequence is an ordered list of Chunks, read as if concatenated, but
// never actually copied together.
type ChunkSequence []Chunk

// ChunkReader decodes Fields across a ChunkSequence, tolerating tags,
// varints, and fixed-width values that straddle a chunk boundary. It is the
// cross-chunk counterpart to Decoder, used where a packet's wire bytes
// cannot be guaranteed contiguous.
//
// A length-delimited field's Bytes is only a zero-copy borrow when the
// field happens to lie entirely within one chunk; when it straddles a
// boundary, Bytes is left nil and the reader still advances past it
// correctly, since most callers (the validator) only need the field id and
// the ability to skip the payload, not its content.
type ChunkReader struct {
	seq        ChunkSequence
	chunkIdx   int
	byteOffset int
}

// NewChunkReader returns a ChunkReader positioned at the start of seq.
func NewChunkReader(seq ChunkSequence) *ChunkReader {
	return &ChunkReader{seq: seq}
}

// Done reports whether every chunk has been fully consumed.
func (r *ChunkReader) Done() bool {
	for i := r.chunkIdx; i < len(r.seq); i++ {
		if i == r.chunkIdx {
			if r.byteOffset < len(r.seq[i].Data) {
				return false
			}
			continue
		}
		if len(r.seq[i].Data) > 0 {
			return false
		}
	}
	return true
}

func (r *ChunkReader) readByte() (byte, bool) {
	for {
		if r.chunkIdx >= len(r.seq) {
			return 0, false
		}
		cur := r.seq[r.chunkIdx].Data
		if r.byteOffset >= len(cur) {
			r.chunkIdx++
			r.byteOffset = 0
			continue
		}
		b := cur[r.byteOffset]
		r.byteOffset++
		return b, true
	}
}

// skip advances past n bytes, returning a zero-copy borrow only if they lie
// entirely within the current chunk.
func (r *ChunkReader) skip(n uint64) ([]byte, bool) {
	if n == 0 {
		return nil, true
	}
	for r.chunkIdx < len(r.seq) && r.byteOffset >= len(r.seq[r.chunkIdx].Data) {
		r.chunkIdx++
		r.byteOffset = 0
	}
	if r.chunkIdx < len(r.seq) {
		cur := r.seq[r.chunkIdx].Data
		remaining := uint64(len(cur) - r.byteOffset)
		if n <= remaining {
			b := cur[r.byteOffset : r.byteOffset+int(n)]
			r.byteOffset += int(n)
			return b, true
		}
	}
	for i := uint64(0); i < n; i++ {
		if _, ok := r.readByte(); !ok {
			return nil, false
		}
	}
	return nil, true
}

func (r *ChunkReader) varint() (uint64, bool) {
	var result uint64
	for i := 0; i < maxVarintBytes; i++ {
		b, ok := r.readByte()
		if !ok {
			return 0, false
		}
		result |= uint64(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return result, true
		}
	}
	return 0, false
}

func (r *ChunkReader) fixed(n int) (uint64, bool) {
	var v uint64
	for i := 0; i < n; i++ {
		b, ok := r.readByte()
		if !ok {
			return 0, false
		}
		v |= uint64(b) << (8 * uint(i))
	}
	return v, true
}

// Next decodes and returns the next field, or false at end-of-sequence or
// on malformed input (mirroring Decoder.Next).
func (r *ChunkReader) Next() (Field, bool) {
	if r.Done() {
		return Field{}, false
	}

	tag, ok := r.varint()
	if !ok {
		return Field{}, false
	}

	id := FieldID(tag >> 3)
	wt := WireType(tag & 0x7)
	if id == 0 {
		return Field{}, false
	}

	switch wt {
	case WireVarint:
		v, ok := r.varint()
		if !ok {
			return Field{}, false
		}
		return Field{ID: id, Type: wt, IntValue: v}, true

	case WireFixed64:
		v, ok := r.fixed(8)
		if !ok {
			return Field{}, false
		}
		return Field{ID: id, Type: wt, IntValue: v}, true

	case WireFixed32:
		v, ok := r.fixed(4)
		if !ok {
			return Field{}, false
		}
		return Field{ID: id, Type: wt, IntValue: v}, true

	case WireLengthDelimited:
		n, ok := r.varint()
		if !ok {
			return Field{}, false
		}
		b, ok := r.skip(n)
		if !ok {
			return Field{}, false
		}
		return Field{ID: id, Type: wt, Bytes: b}, true

	default:
		return Field{}, false
	}
}
