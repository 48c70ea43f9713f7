package columnar

import "hash/fnv"

// StringID indexes an interned string in a StringPool.
type StringID uint32

// StringPool interns strings keyed by their 32-bit FNV-1a hash, so the id
// assigned to a given string is reproducible by anyone who recomputes the
// same hash over the same bytes.
type StringPool struct {
	hashToID map[uint32]StringID
	strings  []string
}

// NewStringPool returns an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{hashToID: make(map[uint32]StringID)}
}

// Intern returns s's StringID, assigning a new one on first occurrence.
func (p *StringPool) Intern(s string) StringID {
	h := fnvHash(s)
	if id, ok := p.hashToID[h]; ok {
		return id
	}
	id := StringID(len(p.strings))
	p.strings = append(p.strings, s)
	p.hashToID[h] = id
	return id
}

// String returns the interned string for id, or ("", false) if unknown.
func (p *StringPool) String(id StringID) (string, bool) {
	if int(id) < 0 || int(id) >= len(p.strings) {
		return "", false
	}
	return p.strings[id], true
}

func fnvHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
