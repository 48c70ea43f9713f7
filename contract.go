package tracecore

import "github.com/joeycumines/tracecore/wire"

// TrustedUIDField is the reserved "trusted origin" field id: a contract
// constant shared with the public schema so validator.Validate can reject
// any packet that sets it, regardless of who produced it.
const TrustedUIDField wire.FieldID = 9

// ClockRealtime and ClockMonotonic name the two builtin clock domains known
// to timetrace.Tracker by contract (see timetrace.DomainRealtime,
// timetrace.DomainMonotonic for the corresponding Domain values).
const (
	ClockRealtime  = "realtime"
	ClockMonotonic = "monotonic"
)
