package columnar

// cpuColumns holds the three parallel sequences for one CPU. Invariant:
// all three slices always have equal length.
type cpuColumns struct {
	startNs      []int64
	durationNs   []int64
	threadNameID []StringID
}

// Store is a per-CPU columnar trace store with one shared string pool.
type Store struct {
	pool    *StringPool
	columns map[uint32]*cpuColumns
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		pool:    NewStringPool(),
		columns: make(map[uint32]*cpuColumns),
	}
}

// AddSliceForCPU interns threadName (if not already present) and appends
// one row to cpu's three columns.
func (s *Store) AddSliceForCPU(cpu uint32, startNs, durationNs int64, threadName string) {
	id := s.pool.Intern(threadName)
	c, ok := s.columns[cpu]
	if !ok {
		c = &cpuColumns{}
		s.columns[cpu] = c
	}
	c.startNs = append(c.startNs, startNs)
	c.durationNs = append(c.durationNs, durationNs)
	c.threadNameID = append(c.threadNameID, id)
}

// Columns exposes cpu's three columns by reference; callers must not
// mutate the returned slices.
func (s *Store) Columns(cpu uint32) (startNs, durationNs []int64, threadNameID []StringID) {
	c, ok := s.columns[cpu]
	if !ok {
		return nil, nil, nil
	}
	return c.startNs, c.durationNs, c.threadNameID
}

// String resolves a previously interned StringID.
func (s *Store) String(id StringID) (string, bool) {
	return s.pool.String(id)
}

// Slice is a single (cpu, start, duration, thread-name) row, used as the
// unit of conversion at the Store's boundary (e.g. for tests and callers
// that want a value type rather than column references).
type Slice struct {
	CPU          uint32
	StartNs      int64
	DurationNs   int64
	ThreadNameID StringID
}

// Slices materializes cpu's columns as a slice of value-type rows. Callers
// that only need column-oriented access should prefer Columns, which
// returns references without allocating.
func (s *Store) Slices(cpu uint32) []Slice {
	starts, durations, names := s.Columns(cpu)
	if len(starts) == 0 {
		return nil
	}
	out := make([]Slice, len(starts))
	for i := range starts {
		out[i] = Slice{CPU: cpu, StartNs: starts[i], DurationNs: durations[i], ThreadNameID: names[i]}
	}
	return out
}
