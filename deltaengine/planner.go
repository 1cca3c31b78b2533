package deltaengine

import (
	"sort"

	"fiver/delta"
)

// Plan turns a set of matches (already known to be non-overlapping in new
// buffer coordinates) into an ordered Copy/Insert operation stream,
// filling every gap between accepted matches with Insert operations
// (spec.md §4.6, C5). matches need not arrive sorted.
func Plan(matches []Match, base, newBuf []byte) []delta.Operation {
	sorted := append([]Match(nil), matches...)
	sort.SliceStable(sorted,func(i, j int) bool { return sorted[i].NewOffset < sorted[j].NewOffset })

	var ops []delta.Operation
	cursor := uint32(0)

	for _, m := range sorted {
		if m.NewOffset < cursor {
			// Overlaps the match already emitted; skip rather than
			// corrupt the stream by re-copying already-covered bytes.
			continue
		}
		if m.NewOffset > cursor {
			ops = append(ops, delta.Insert(append([]byte(nil), newBuf[cursor:m.NewOffset]...)))
		}
		ops = append(ops, delta.Copy(m.BaseOffset, m.Length))
		cursor = m.NewOffset + m.Length
	}

	if cursor < uint32(len(newBuf)) {
		ops = append(ops, delta.Insert(append([]byte(nil), newBuf[cursor:]...)))
	}

	return coalesceInserts(ops)
}

// coalesceInserts merges adjacent Insert operations the gap-filling loop
// above never actually produces back to back, but a future caller feeding
// Plan a pre-merged match list might; keeping this pass cheap and
// idempotent is simpler than asserting the invariant at every call site.
func coalesceInserts(ops []delta.Operation) []delta.Operation {
	if len(ops) < 2 {
		return ops
	}
	out := ops[:1]
	for _, op := range ops[1:] {
		last := &out[len(out)-1]
		if last.Type == delta.OpInsert && op.Type == delta.OpInsert {
			last.Data = append(last.Data, op.Data...)
			last.Length = uint32(len(last.Data))
			continue
		}
		out = append(out, op)
	}
	return out
}
