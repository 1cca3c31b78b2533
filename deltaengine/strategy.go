package deltaengine

import (
	"fiver/delta"
)

// Fixed tier III algorithm parameters (spec.md §4.4). windowSize is the
// rolling fingerprint width; minMatchLen is the shortest match the seed
// index will report (L_min); seedBuckets sizes the seed index's hash
// table.
const (
	windowSize  = 32
	minMatchLen = 32
	seedBuckets = 65536
)

// tailAppendMaxTail bounds the tail tier I will accept: the tail must be
// shorter than this many bytes (spec.md §4.4).
const tailAppendMaxTail = 1000

// tailAppendMinPrefixRatio is the fraction of base that must match as a
// common prefix for tier I to apply.
const tailAppendMinPrefixRatio = 0.95

// middleEditMaxCombinedRatio triggers tier II when the common prefix+suffix
// covers most of base.
const middleEditMaxCombinedRatio = 0.8

// middleEditMaxDeltaRatio triggers tier II when the size delta is small,
// even if prefix+suffix coverage is unremarkable.
const middleEditMaxDeltaRatio = 0.01

// minMatchesBeforeRetry and retryMinSize gate Phase B-retry (spec.md §4.5).
const (
	minMatchesBeforeRetry = 10
	retryMinSize          = 1 << 20 // 1 MiB
	retryLBen             = 32
)

// Deltify computes the operation stream that turns base into newBuf,
// selecting the cheapest strategy tier that applies (spec.md §4.4):
//
//	Tier I   — newBuf is base with a short tail appended.
//	Tier II  — newBuf shares a common prefix and/or suffix with base and
//	           differs only in a middle span.
//	Tier III — full seed-index scan, for unstructured or reordered edits.
func Deltify(base, newBuf []byte) (*delta.Stream, error) {
	var ops []delta.Operation

	switch {
	case len(base) == 0:
		ops = tierInsertAll(newBuf)
	default:
		prefix := commonPrefixLen(base, newBuf)
		if tail, ok := tierITailAppend(base, newBuf, prefix); ok {
			ops = tail
		} else if middle, ok := tierIIPrefixSuffix(base, newBuf, prefix); ok {
			ops = middle
		} else {
			ops = tierIIIFullScan(base, newBuf)
		}
	}

	return delta.NewStream(uint32(len(base)), ops)
}

// tierInsertAll handles the version-1 case: no base buffer exists yet, so
// the only legal operation is inserting the whole new buffer.
func tierInsertAll(newBuf []byte) []delta.Operation {
	if len(newBuf) == 0 {
		return nil
	}
	return []delta.Operation{delta.Insert(append([]byte(nil), newBuf...))}
}

// tierITailAppend applies when newBuf is larger than base by less than
// tailAppendMaxTail bytes and the common prefix covers at least
// tailAppendMinPrefixRatio of base (spec.md §4.4 tier I).
func tierITailAppend(base, newBuf []byte, prefix int) ([]delta.Operation, bool) {
	if len(newBuf) <= len(base) || len(newBuf)-len(base) >= tailAppendMaxTail {
		return nil, false
	}
	if float64(prefix) < tailAppendMinPrefixRatio*float64(len(base)) {
		return nil, false
	}
	ops := []delta.Operation{delta.Copy(0, uint32(prefix))}
	if tail := newBuf[prefix:]; len(tail) > 0 {
		ops = append(ops, delta.Insert(append([]byte(nil), tail...)))
	}
	return ops, true
}

// tierIIPrefixSuffix applies when the common prefix+suffix covers most of
// base, or the overall size delta is small (spec.md §4.4 tier II). The
// middle span `[P, new_size-S)` of newBuf is emitted as a single Insert.
func tierIIPrefixSuffix(base, newBuf []byte, prefix int) ([]delta.Operation, bool) {
	suffix := commonSuffixLen(base[prefix:], newBuf[prefix:])

	baseSize := len(base)
	delta64 := len(newBuf) - baseSize
	if delta64 < 0 {
		delta64 = -delta64
	}

	combined := float64(prefix + suffix)
	coversMost := baseSize > 0 && combined > middleEditMaxCombinedRatio*float64(baseSize)
	smallDelta := baseSize > 0 && float64(delta64) < middleEditMaxDeltaRatio*float64(baseSize)
	if !coversMost && !smallDelta {
		return nil, false
	}

	if prefix+suffix > baseSize || prefix+suffix > len(newBuf) {
		return nil, false
	}

	var ops []delta.Operation
	if prefix > 0 {
		ops = append(ops, delta.Copy(0, uint32(prefix)))
	}

	midStart, midEnd := prefix, len(newBuf)-suffix
	if midEnd > midStart {
		ops = append(ops, delta.Insert(append([]byte(nil), newBuf[midStart:midEnd]...)))
	}

	if suffix > 0 {
		ops = append(ops, delta.Copy(uint32(baseSize-suffix), uint32(suffix)))
	}

	return ops, true
}

// tierIIIFullScan runs Phase B of spec.md §4.5: scan newBuf left to right,
// accepting the best match at each unvisited position that clears L_ben,
// skipping past it on acceptance. Retries once with L_ben = retryLBen if
// the first pass found too few matches on a large buffer, keeping whichever
// pass found more matches. retryLBen is not below any first-pass L_ben.
func tierIIIFullScan(base, newBuf []byte) []delta.Operation {
	if len(newBuf) < windowSize || len(base) < windowSize {
		return Plan(nil, base, newBuf)
	}

	lBen := BeneficialThreshold(len(newBuf))
	matches := scanForMatches(base, newBuf, lBen)

	if len(matches) < minMatchesBeforeRetry && len(newBuf) > retryMinSize {
		retryMatches := scanForMatches(base, newBuf, retryLBen)
		if len(retryMatches) > len(matches) {
			matches = retryMatches
		}
	}

	return Plan(matches, base, newBuf)
}

// scanForMatches runs one full Phase B pass over newBuf with the given
// L_ben threshold.
func scanForMatches(base, newBuf []byte, lBen int) []Match {
	finder := NewFinder(base, windowSize, minMatchLen, seedBuckets)

	var matches []Match
	lastEnd := 0
	p := 0
	for p < len(newBuf) {
		if p < lastEnd {
			p++
			continue
		}
		m, ok := finder.FindAt(newBuf, p)
		if ok && int(m.Length) >= lBen && int(m.NewOffset) >= lastEnd {
			matches = append(matches, m)
			lastEnd = int(m.NewOffset) + int(m.Length)
			p = lastEnd
			continue
		}
		p++
	}
	return matches
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
