// Package taskstate models a 16-bit packed kernel scheduling state (as
// carried by a sched_switch-style trace event) and its canonical short
// string rendering.
package taskstate
