// Package columnar implements a per-CPU columnar trace store: three
// parallel sequences (start timestamp, duration, thread-name id) per CPU,
// backed by one string pool per Store, shared by all of its CPUs and
// interned by a 32-bit FNV-style hash.
package columnar
