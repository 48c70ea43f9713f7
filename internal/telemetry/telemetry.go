// Package telemetry provides the shared structured logger used by the
// reactor and the validator to report operator-visible failures. It is not the meta-trace sink (see the
// metatrace package) — this is ordinary operational logging.
package telemetry

import (
	"io"
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

var (
	mu      sync.RWMutex
	current = build(os.Stderr)
)

func build(w io.Writer) *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(w)))
}

// Logger returns the current shared logger.
func Logger() *logiface.Logger[*stumpy.Event] {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetWriter reconfigures the shared logger to write to w. Intended for
// tests that want to capture or silence output; production callers should
// leave the default (stderr).
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	current = build(w)
}
