package taskstate

import "fmt"

// State is a packed 16-bit scheduling state: an 11-bit mask of task-state
// atoms, a preemption flag, and a validity sentinel.
type State uint16

const (
	atomMask   = 0x07FF // bits 0-10: task-state atoms
	preemptBit = 0x0800 // bit 11: kernel-preempt flag
	validBit   = 0x8000 // bit 15: validity sentinel
)

// atomChar pairs one task-state atom bit with its canonical render
// character, in the ascending order ToString walks them.
type atomChar struct {
	bit uint16
	ch  byte
}

// atomTable is the canonical order from the kernel's own sched.h: runnable
// has no bit of its own (it is the "none of the below" case, rendered
// separately), so the table starts at interruptible sleep.
var atomTable = [...]atomChar{
	{1, 'S'},    // interruptible sleep
	{2, 'D'},    // uninterruptible sleep
	{4, 'T'},    // stopped
	{8, 't'},    // traced
	{16, 'X'},   // exit-dead
	{32, 'Z'},   // exit-zombie
	{64, 'x'},   // task-dead
	{128, 'K'},  // wake-kill
	{256, 'W'},  // waking
	{512, 'P'},  // parked
	{1024, 'N'}, // no-load
}

// New constructs a State from a raw 16-bit kernel value: the low 11 bits
// become the atom mask, bit 11 becomes the preemption flag, and the
// validity sentinel is set unconditionally.
func New(raw uint16) State {
	return State((raw & (atomMask | preemptBit)) | validBit)
}

// Valid reports whether this State was constructed via New (as opposed to
// the zero value).
func (s State) Valid() bool {
	return s&validBit != 0
}

// Runnable reports whether no task-state atom bit is set.
func (s State) Runnable() bool {
	return s&atomMask == 0
}

// Preempt reports whether the kernel-preempt flag is set.
func (s State) Preempt() bool {
	return s&preemptBit != 0
}

// Raw returns the atom mask and preemption bit, with the validity sentinel
// stripped.
func (s State) Raw() uint16 {
	return uint16(s) &^ validBit
}

// String renders the canonical short form: one character per set atom bit
// in kernel order, 'R' if none are set, and a trailing '+' if the
// preemption flag is set. The output is never truncated: it holds one
// character for every set atom bit (up to 11) plus the optional '+'.
func (s State) String() string {
	if !s.Valid() {
		return "?"
	}

	var buf [len(atomTable) + 1]byte
	n := 0
	for _, a := range atomTable {
		if uint16(s)&a.bit != 0 {
			buf[n] = a.ch
			n++
		}
	}
	if n == 0 {
		buf[n] = 'R'
		n++
	}
	if s.Preempt() {
		buf[n] = '+'
		n++
	}
	return string(buf[:n])
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler by reconstructing a
// State from a previously rendered string. Each rendering of a valid State
// corresponds to exactly one atom-bit-and-preemption combination, so
// round-tripping a valid State through String is exact.
func (s *State) UnmarshalText(text []byte) error {
	var raw uint16
	str := string(text)
	preempt := false
	if len(str) > 0 && str[len(str)-1] == '+' {
		preempt = true
		str = str[:len(str)-1]
	}
	if str != "R" {
		for _, c := range []byte(str) {
			found := false
			for _, a := range atomTable {
				if a.ch == c {
					raw |= a.bit
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("taskstate: unrecognized atom character %q", c)
			}
		}
	}
	if preempt {
		raw |= preemptBit
	}
	*s = New(raw)
	return nil
}
