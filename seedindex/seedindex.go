// Package seedindex implements the collision-chained fingerprint→offset
// multimap the match finder scans while matching the new buffer against
// the base buffer.
package seedindex

// entry is one (fingerprint, offset) pair in a bucket's chain. next is the
// index of the next entry in the same bucket within Index.entries, or -1
// at the end of the chain.
type entry struct {
	fingerprint uint32
	offset      uint32
	next        int32
}

// Index is a fixed-bucket-count, head-insert chained multimap from
// fingerprint to base-buffer offsets. Entries are owned by the Index and
// are only ever appended to, never freed individually — the whole Index is
// dropped together at the end of the call that built it.
type Index struct {
	buckets []int32 // head entry index per bucket, or -1 if empty
	entries []entry
}

// New allocates an Index with the given number of buckets. Panics if
// buckets <= 0.
func New(buckets int) *Index {
	if buckets <= 0 {
		panic("seedindex: buckets must be > 0")
	}
	heads := make([]int32, buckets)
	for i := range heads {
		heads[i] = -1
	}
	return &Index{buckets: heads}
}

// Insert records a (fingerprint, offset) seed, prepending it to its
// bucket's chain so later lookups see the most recently inserted offset
// for a given fingerprint first.
func (idx *Index) Insert(fingerprint uint32, offset uint32) {
	bucket := int(fingerprint % uint32(len(idx.buckets)))
	idx.entries = append(idx.entries, entry{
		fingerprint: fingerprint,
		offset:      offset,
		next:        idx.buckets[bucket],
	})
	idx.buckets[bucket] = int32(len(idx.entries) - 1)
}

// Candidates returns up to max offsets previously inserted under
// fingerprint, most recently inserted first. A max of zero or less means
// no limit.
func (idx *Index) Candidates(fingerprint uint32, max int) []uint32 {
	bucket := int(fingerprint % uint32(len(idx.buckets)))
	var out []uint32
	for i := idx.buckets[bucket]; i != -1; i = idx.entries[i].next {
		e := &idx.entries[i]
		if e.fingerprint != fingerprint {
			continue
		}
		out = append(out, e.offset)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// Len returns the total number of seeds inserted.
func (idx *Index) Len() int {
	return len(idx.entries)
}
