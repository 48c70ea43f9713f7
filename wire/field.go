package wire

// WireType identifies how a field's payload is encoded on the wire.
type WireType uint8

const (
	WireVarint         WireType = 0
	WireFixed64        WireType = 1
	WireLengthDelimited WireType = 2
	WireFixed32        WireType = 5
)

// FieldID is the field identifier packed into a tag alongside its WireType.
type FieldID uint16

// Field is a decoded wire element: a transient view into the buffer a
// Decoder was constructed over. It must not be retained past the next call
// to Decoder.Next or Decoder.Reset, nor past the lifetime of the underlying
// buffer.
type Field struct {
	ID       FieldID
	Type     WireType
	IntValue uint64 // valid for WireVarint, WireFixed32, WireFixed64
	Bytes    []byte // valid for WireLengthDelimited; borrows the source buffer
}

// Valid reports whether this is a real decoded field, as opposed to the
// zero-value sentinel Decoder.Next returns on end-of-buffer or malformed
// input.
func (f Field) Valid() bool {
	return f.ID != 0
}

// AsUint32 interprets IntValue as a uint32, for WireVarint or WireFixed32
// fields.
func (f Field) AsUint32() uint32 {
	return uint32(f.IntValue)
}

// AsUint64 interprets IntValue as a uint64.
func (f Field) AsUint64() uint64 {
	return f.IntValue
}

// AsBool interprets IntValue as a boolean, for WireVarint fields.
func (f Field) AsBool() bool {
	return f.IntValue != 0
}
