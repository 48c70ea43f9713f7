package validator

import (
	"github.com/joeycumines/tracecore/internal/telemetry"
	"github.com/joeycumines/tracecore/wire"
)

// Validate reports whether seq parses end-to-end as a well-formed
// length-delimited packet body and does not set trustedUIDField — a field
// id reserved for the trusted producer, shared by contract with the public
// schema. It reads only as far as needed to answer: it early-rejects on
// the first forbidden field, and never copies payload bytes.
func Validate(seq wire.ChunkSequence, trustedUIDField wire.FieldID) bool {
	r := wire.NewChunkReader(seq)
	for {
		if r.Done() {
			return true
		}
		f, ok := r.Next()
		if !ok {
			telemetry.Logger().Info().Log("validator: rejected malformed packet")
			return false
		}
		if f.ID == trustedUIDField {
			telemetry.Logger().Info().Str("field", "trusted-uid").Log("validator: rejected packet setting reserved field")
			return false
		}
	}
}
