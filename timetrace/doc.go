// Package timetrace unifies timestamps across clock domains: each domain
// accumulates an append-only sequence of (clock, trace) snapshot pairs, and
// a foreign clock reading is mapped to trace time by piecewise-linear
// interpolation with slope one, stepping back to the latest snapshot at or
// before the query.
package timetrace
