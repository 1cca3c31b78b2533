package rollinghash

import "testing"

// TestNewPanicsOnZeroWindow ensures New rejects a non-positive window size.
func TestNewPanicsOnZeroWindow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for window size 0")
		}
	}()
	New(0)
}

// TestFingerprintEmptyWindow verifies an untouched RollingHash reports a
// zero fingerprint.
func TestFingerprintEmptyWindow(t *testing.T) {
	rh := New(4)
	if got := rh.Fingerprint(); got != 0 {
		t.Errorf("expected fingerprint 0 for empty window, got %d", got)
	}
}

// TestPushFillsWindow checks the accumulators after filling the window
// without ever evicting a byte, matching the "not full yet" branch of the
// reference update rule.
func TestPushFillsWindow(t *testing.T) {
	rh := New(3)
	data := []byte{10, 20, 30}

	var wantA, wantB uint32
	for _, b := range data {
		wantA += uint32(b)
		wantB += wantA
		rh.Push(b)
	}
	wantA &= 0xFFFF
	wantB &= 0xFFFF

	if rh.a != wantA || rh.b != wantB {
		t.Errorf("got a=%d b=%d, want a=%d b=%d", rh.a, rh.b, wantA, wantB)
	}
}

// TestFingerprintDeterministic checks that two independently constructed
// RollingHash instances fed the same byte stream agree on every
// fingerprint — the seed index and match finder depend on this.
func TestFingerprintDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	const window = 8

	rh1 := New(window)
	rh2 := New(window)

	for i, b := range data {
		rh1.Push(b)
		rh2.Push(b)
		if i >= window-1 {
			if rh1.Fingerprint() != rh2.Fingerprint() {
				t.Fatalf("fingerprints diverged at byte %d", i)
			}
		}
	}
}

// TestFingerprintChangesOnEviction ensures rolling past the window size
// changes the fingerprint when the evicted and inserted bytes differ.
func TestFingerprintChangesOnEviction(t *testing.T) {
	rh := New(4)
	for _, b := range []byte("aaaa") {
		rh.Push(b)
	}
	before := rh.Fingerprint()
	rh.Push('b')
	after := rh.Fingerprint()

	if before == after {
		t.Errorf("expected fingerprint to change after evicting a distinct byte")
	}
}

// TestReset checks Reset returns the hash to its just-constructed state.
func TestReset(t *testing.T) {
	rh := New(4)
	for _, b := range []byte("abcdef") {
		rh.Push(b)
	}
	rh.Reset()

	if got := rh.Fingerprint(); got != 0 {
		t.Errorf("expected fingerprint 0 after reset, got %d", got)
	}
	if rh.bytesIn != 0 || rh.pos != 0 {
		t.Errorf("expected bytesIn=0 pos=0 after reset, got bytesIn=%d pos=%d", rh.bytesIn, rh.pos)
	}
}

// TestWindowSize checks the accessor reports the configured size.
func TestWindowSize(t *testing.T) {
	rh := New(17)
	if rh.WindowSize() != 17 {
		t.Errorf("expected WindowSize() == 17, got %d", rh.WindowSize())
	}
}
