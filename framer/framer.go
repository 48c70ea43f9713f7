package framer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/joeycumines/tracecore"
	"github.com/joeycumines/tracecore/metatrace"
)

// maxReadChunk bounds a single body read, so one peer's huge record can't
// monopolize the caller's read loop. Matches the original implementation's
// kMaxReadSize.
const maxReadChunk = 16 * 4096

// sizeHeaderLen is the width of the length prefix preceding every record.
const sizeHeaderLen = 8

// ErrOversizeRecord is returned when a peer declares a record larger than
// the Framer's configured maximum, before any body bytes are read for it.
var ErrOversizeRecord = errors.New("framer: record size exceeds configured maximum")

// Source is the minimal byte-oriented read contract a Framer consumes, with
// POSIX read(2) semantics: a nil error with n==0 never happens on its own;
// end of stream is io.EOF, and a transient "nothing available right now" is
// reported by wrapping unix.EAGAIN or unix.EWOULDBLOCK. Any other error is
// fatal to the Framer instance using it.
type Source interface {
	Read(buf []byte) (int, error)
}

// wouldBlock reports whether err represents a transient "try again later"
// condition rather than a real failure.
func wouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// Record is one fully reassembled, length-prefixed record, handed to the
// consumer callback by value exactly once.
type Record struct {
	Size int
	Data []byte
}

type phase int

const (
	phaseSize phase = iota
	phaseBody
)

// Framer reassembles length-prefixed records out of a Source that may only
// ever offer a partial read at a time.
//
// The zero value is not usable; construct with NewFramer.
type Framer struct {
	maxRecordSize int
	onRecord      func(Record)

	phase      phase
	sizeBuf    [sizeHeaderLen]byte
	sizeFilled int

	body      []byte
	bodyFilled int
	recordSize int
}

// NewFramer returns a Framer that rejects any declared record size above
// maxRecordSize and invokes onRecord once per fully reassembled record.
func NewFramer(maxRecordSize int, onRecord func(Record)) *Framer {
	metatrace.Init()
	return &Framer{
		maxRecordSize: maxRecordSize,
		onRecord:      onRecord,
	}
}

// Reset discards any partially read record and returns the Framer to its
// initial state, for use after a fatal error on the underlying Source.
func (f *Framer) Reset() {
	f.phase = phaseSize
	f.sizeFilled = 0
	f.body = nil
	f.bodyFilled = 0
	f.recordSize = 0
}

// Read performs one underlying read from r and advances the reassembly
// state machine, delivering a record through the callback if that read
// completed one. It returns the number of bytes consumed from r this call.
//
// EAGAIN/EWOULDBLOCK from r is not an error: Read returns (0, nil). io.EOF
// from r is returned as-is. Any other error from r is wrapped in a
// *tracecore.FatalTransportError and fatal for this Framer instance;
// callers should not call Read again without first calling Reset. A
// record declaring a size above the configured maximum is rejected with a
// *tracecore.PeerMisbehaviorError wrapping ErrOversizeRecord.
func (f *Framer) Read(r Source) (int, error) {
	switch f.phase {
	case phaseSize:
		return f.readSize(r)
	case phaseBody:
		return f.readBody(r)
	default:
		panic(fmt.Sprintf("framer: unreachable phase %d", f.phase))
	}
}

func (f *Framer) readSize(r Source) (int, error) {
	n, err := r.Read(f.sizeBuf[f.sizeFilled:])
	if n > 0 {
		f.sizeFilled += n
	}
	if err != nil {
		if wouldBlock(err) {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			return n, err
		}
		return n, &tracecore.FatalTransportError{Cause: err}
	}

	if f.sizeFilled < sizeHeaderLen {
		return n, nil
	}

	size := binary.LittleEndian.Uint64(f.sizeBuf[:])
	if f.maxRecordSize > 0 && size > uint64(f.maxRecordSize) {
		return n, &tracecore.PeerMisbehaviorError{Kind: "oversize record", Cause: ErrOversizeRecord}
	}

	f.recordSize = int(size)
	f.sizeFilled = 0
	f.phase = phaseBody

	if f.recordSize == 0 {
		f.deliver()
		return n, nil
	}
	f.body = make([]byte, f.recordSize)
	return n, nil
}

func (f *Framer) readBody(r Source) (int, error) {
	want := f.recordSize - f.bodyFilled
	if want > maxReadChunk {
		want = maxReadChunk
	}

	n, err := r.Read(f.body[f.bodyFilled : f.bodyFilled+want])
	if n > 0 {
		f.bodyFilled += n
	}
	if err != nil {
		if wouldBlock(err) {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			return n, err
		}
		return n, &tracecore.FatalTransportError{Cause: err}
	}

	if f.bodyFilled == f.recordSize {
		f.deliver()
	}
	return n, nil
}

func (f *Framer) deliver() {
	rec := Record{Size: f.recordSize, Data: f.body}
	f.body = nil
	f.bodyFilled = 0
	f.recordSize = 0
	f.phase = phaseSize
	f.onRecord(rec)
}
