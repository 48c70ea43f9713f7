// Package tracecore is the language-and-platform layer of a system tracing
// pipeline: a single-threaded cooperative task runner, a length-prefixed
// record framer, a flat circular queue, a streaming wire-format decoder
// and packet validator, a background resource/liveness watchdog, a
// multi-clock-domain time unifier, and a columnar trace store with a
// filtered row-set abstraction.
//
// This package itself holds only what crosses every component: the shared
// error taxonomy and the wire-schema contract constants. Each component
// lives in its own subpackage (ringqueue, wire, framer, taskrunner,
// watchdog, timetrace, validator, columnar, rowindex, taskstate, lru).
package tracecore
