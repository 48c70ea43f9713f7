package tracecore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeerMisbehaviorError_UnwrapsToCause(t *testing.T) {
	cause := errors.New("boom")
	err := &PeerMisbehaviorError{Kind: "oversize record", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "oversize record")
}

func TestPeerMisbehaviorError_NoCause(t *testing.T) {
	err := &PeerMisbehaviorError{Kind: "forbidden field"}
	assert.Nil(t, err.Unwrap())
	assert.Contains(t, err.Error(), "forbidden field")
}

func TestFatalTransportError_UnwrapsToCause(t *testing.T) {
	cause := errors.New("read failed")
	err := &FatalTransportError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}
