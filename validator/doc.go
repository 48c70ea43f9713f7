// Package validator streams a length-delimited packet body across a
// wire.ChunkSequence and rejects it if it is malformed or sets a field
// reserved for the trusted producer.
package validator
