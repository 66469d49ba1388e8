package ranking

import (
	"fmt"
	"hash/fnv"

	"github.com/opencoff/go-chd"
)

// hashKey maps a string Key to the uint64 key space go-chd's ChdBuilder
// operates on; the library leaves the choice of hash function to the
// caller.
func hashKey(key Key) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}

// mphIndex is the one file in this package that touches opencoff/go-chd
// directly. If the library's surface shifts, only this file needs to
// change; every other file in the package talks to mphIndex, never to chd
// itself.
type mphIndex struct {
	table   *chd.Chd
	entries []Entry
}

// buildIndex constructs a minimal perfect hash over entries' keys so Lookup
// is a single hash + array access, no probing.
func buildIndex(entries []Entry) (*mphIndex, error) {
	b, err := chd.New()
	if err != nil {
		return nil, fmt.Errorf("ranking: new chd builder: %w", err)
	}
	for _, e := range entries {
		if err := b.Add(hashKey(e.Key)); err != nil {
			return nil, fmt.Errorf("ranking: add key: %w", err)
		}
	}
	table, err := b.Freeze(0.9)
	if err != nil {
		return nil, fmt.Errorf("ranking: freeze perfect hash: %w", err)
	}
	// Find returns the key's hash slot, not its insertion order; rearrange
	// entries so the slot indexes straight into the backing array.
	bySlot := make([]Entry, len(entries))
	for _, e := range entries {
		slot := table.Find(hashKey(e.Key))
		if int(slot) >= len(bySlot) {
			return nil, fmt.Errorf("ranking: perfect hash slot %d out of range for %d entries", slot, len(entries))
		}
		bySlot[slot] = e
	}
	return &mphIndex{table: table, entries: bySlot}, nil
}

// lookup returns the Entry for key, or false if key was never indexed. The
// perfect hash only guarantees a unique slot for keys seen at build time; a
// foreign key can alias an existing slot, so the caller must still compare
// the returned Entry's Key before trusting it.
func (m *mphIndex) lookup(key Key) (Entry, bool) {
	idx := m.table.Find(hashKey(key))
	if int(idx) >= len(m.entries) {
		return Entry{}, false
	}
	e := m.entries[idx]
	if e.Key != key {
		return Entry{}, false
	}
	return e, true
}
