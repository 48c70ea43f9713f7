// Package metatrace is the process-wide, ambient meta-trace sink: an
// optional record of the tracing system's own behavior (task runner
// creation, watchdog breaches), distinct from ordinary operational logging
// (see internal/telemetry).
//
// It is entirely opt-in. With the environment variable unset, Emit is a
// no-op; the file named by it is opened for write, truncating any existing
// content, the first time Init runs (directly, or through Enabled or Emit).
// That can happen before any event is emitted: framer.NewFramer and
// watchdog.Default call Init themselves.
package metatrace

import (
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// EnvFile names the environment variable that, if set, enables meta-tracing
// to the named file.
const EnvFile = "TRACECORE_METATRACE_FILE"

var (
	once   sync.Once
	logger *logiface.Logger[*stumpy.Event] // nil if disabled or init failed
)

// Init consults the environment and, if EnvFile is set, opens the named
// file and attaches the logiface/stumpy writer. Safe to call from any
// number of goroutines or packages: only the first call has any effect.
// Callers need not call it explicitly — Emit and Enabled call it lazily —
// but constructors that want meta-tracing armed before their first event
// (framer.NewFramer, watchdog.Default) call it directly.
func Init() {
	once.Do(func() {
		path := os.Getenv(EnvFile)
		if path == "" {
			return
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			// Meta-tracing is a diagnostic convenience, not load-bearing;
			// a bad path disables it rather than failing the process.
			return
		}
		logger = stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(f)))
	})
}

// Enabled reports whether meta-tracing is configured, initializing it (by
// consulting the environment) on first call if it has not been already.
func Enabled() bool {
	Init()
	return logger != nil
}

// Emit records one meta-trace event, identified by name, with the given
// string fields. It is a no-op if meta-tracing is disabled.
func Emit(name string, fields map[string]string) {
	Init()
	if logger == nil {
		return
	}
	b := logger.Info()
	for k, v := range fields {
		b = b.Str(k, v)
	}
	b.Log(name)
}
