package deltaengine

import (
	"bytes"

	"fiver/rollinghash"
	"fiver/seedindex"
)

// maxCandidatesPerFingerprint bounds how many seed-index entries the
// matcher walks per lookup (spec.md §4.2's tie-break policy).
const maxCandidatesPerFingerprint = 20

// maxMatchExtension caps a single match's extension length, bounding
// runaway comparisons on pathological inputs (spec.md §4.3 step 3c).
const maxMatchExtension = 1 << 20 // 1 MiB

// Finder locates the best candidate match against a fixed base buffer for
// positions in a new buffer, scanned in strictly increasing order
// starting at 0. A Finder is single-use: construct one per deltify call
// and discard it afterward.
type Finder struct {
	base        []byte
	index       *seedindex.Index
	windowSize  int
	minMatchLen int
	rh          *rollinghash.RollingHash
	primed      bool
}

// NewFinder builds a seed index over base (spec.md §4.5 Phase A) and
// returns a Finder ready to scan a new buffer against it.
func NewFinder(base []byte, windowSize, minMatchLen, buckets int) *Finder {
	idx := seedindex.New(buckets)
	if len(base) >= windowSize {
		rh := rollinghash.New(windowSize)
		for i, b := range base {
			rh.Push(b)
			if i >= windowSize-1 {
				idx.Insert(rh.Fingerprint(), uint32(i-windowSize+1))
			}
		}
	}
	return &Finder{
		base:        base,
		index:       idx,
		windowSize:  windowSize,
		minMatchLen: minMatchLen,
		rh:          rollinghash.New(windowSize),
	}
}

// FindAt implements spec.md §4.3: it must be called with p == 0 first,
// then with strictly increasing p values (a caller that skips ahead after
// accepting a match still only pushes a single byte into the rolling
// hash for the new call, exactly mirroring the reference algorithm's
// incremental update rule).
func (f *Finder) FindAt(newBuf []byte, p int) (Match, bool) {
	if p+f.windowSize > len(newBuf) {
		return Match{}, false
	}

	if p == 0 {
		for i := 0; i < f.windowSize; i++ {
			f.rh.Push(newBuf[i])
		}
		f.primed = true
	} else {
		if !f.primed {
			// Defensive: a caller starting at p > 0 still needs a full
			// window pushed once before incremental updates make sense.
			for i := 0; i < f.windowSize; i++ {
				f.rh.Push(newBuf[p+i])
			}
			f.primed = true
		} else {
			f.rh.Push(newBuf[p+f.windowSize-1])
		}
	}

	fp := f.rh.Fingerprint()
	candidates := f.index.Candidates(fp, maxCandidatesPerFingerprint)

	var best Match
	bestLen := 0
	found := false

	for _, baseOffset := range candidates {
		length := extendMatch(f.base, int(baseOffset), newBuf, p, f.windowSize)
		if length >= f.minMatchLen && length > bestLen {
			bestLen = length
			best = Match{BaseOffset: baseOffset, NewOffset: uint32(p), Length: uint32(length)}
			found = true
		}
	}

	return best, found
}

// extendMatch grows a match starting at (baseOffset, newPos) past the
// initial window, comparing 8 bytes at a time, then 4, then byte by byte,
// capped at maxMatchExtension total length.
func extendMatch(base []byte, baseOffset int, newBuf []byte, newPos int, windowSize int) int {
	m := windowSize

	for m < maxMatchExtension {
		if baseOffset+m+8 <= len(base) && newPos+m+8 <= len(newBuf) {
			if bytes.Equal(base[baseOffset+m:baseOffset+m+8], newBuf[newPos+m:newPos+m+8]) {
				m += 8
				continue
			}
		}
		if baseOffset+m+4 <= len(base) && newPos+m+4 <= len(newBuf) {
			if bytes.Equal(base[baseOffset+m:baseOffset+m+4], newBuf[newPos+m:newPos+m+4]) {
				m += 4
				continue
			}
		}
		if baseOffset+m < len(base) && newPos+m < len(newBuf) && base[baseOffset+m] == newBuf[newPos+m] {
			m++
			continue
		}
		break
	}

	if m > maxMatchExtension {
		m = maxMatchExtension
	}
	return m
}

// BeneficialThreshold returns L_ben, the minimum match length worth
// actually using, scaled to the new buffer's size per spec.md §4.3.
func BeneficialThreshold(newSize int) int {
	switch {
	case newSize <= 10*1024*1024:
		return 12
	case newSize <= 50*1024*1024:
		return 16
	default:
		return 32
	}
}
