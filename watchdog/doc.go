// Package watchdog implements a single process-wide supervisor: a
// background worker samples CPU time and resident memory on a fixed
// interval, enforces mean-over-window ceilings, and counts down armed fatal
// timers, crashing the process if either is violated.
package watchdog
