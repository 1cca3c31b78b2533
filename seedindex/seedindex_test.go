package seedindex

import "testing"

func TestNewPanicsOnZeroBuckets(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for 0 buckets")
		}
	}()
	New(0)
}

func TestInsertAndFind(t *testing.T) {
	idx := New(16)
	idx.Insert(42, 100)
	idx.Insert(42, 200)
	idx.Insert(7, 999)

	got := idx.Candidates(42, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates for fingerprint 42, got %d", len(got))
	}
	// Head-insert order: most recent first.
	if got[0] != 200 || got[1] != 100 {
		t.Errorf("expected [200 100], got %v", got)
	}
}

func TestCandidatesRespectsMax(t *testing.T) {
	idx := New(4)
	for i := uint32(0); i < 30; i++ {
		idx.Insert(5, i)
	}
	got := idx.Candidates(5, 20)
	if len(got) != 20 {
		t.Fatalf("expected candidates capped at 20, got %d", len(got))
	}
	// Most recently inserted offset is 29.
	if got[0] != 29 {
		t.Errorf("expected most recent offset 29 first, got %d", got[0])
	}
}

func TestCandidatesEmptyBucket(t *testing.T) {
	idx := New(8)
	if got := idx.Candidates(123, 0); got != nil {
		t.Errorf("expected nil for unseen fingerprint, got %v", got)
	}
}

func TestLen(t *testing.T) {
	idx := New(8)
	idx.Insert(1, 1)
	idx.Insert(2, 2)
	idx.Insert(1, 3)
	if idx.Len() != 3 {
		t.Errorf("expected Len() == 3, got %d", idx.Len())
	}
}

// TestBucketCollisionIsolation checks that two fingerprints landing in the
// same bucket don't pollute each other's candidate lists.
func TestBucketCollisionIsolation(t *testing.T) {
	idx := New(4)
	idx.Insert(4, 10)  // bucket 0
	idx.Insert(8, 20)  // bucket 0
	idx.Insert(12, 30) // bucket 0

	got4 := idx.Candidates(4, 0)
	got8 := idx.Candidates(8, 0)
	got12 := idx.Candidates(12, 0)

	if len(got4) != 1 || got4[0] != 10 {
		t.Errorf("fingerprint 4: expected [10], got %v", got4)
	}
	if len(got8) != 1 || got8[0] != 20 {
		t.Errorf("fingerprint 8: expected [20], got %v", got8)
	}
	if len(got12) != 1 || got12[0] != 30 {
		t.Errorf("fingerprint 12: expected [30], got %v", got12)
	}
}
