package delta

import "fmt"

// ErrMissingPredecessor reports a Copy operation encountered while the
// base buffer is absent — legal only for a version 1 stream, which must
// consist solely of Insert/Replace operations.
var ErrMissingPredecessor = fmt.Errorf("delta: missing predecessor")

// Apply replays stream against base, producing the target buffer. base
// may be nil only if stream contains no Copy operations (the version 1
// case, per spec.md §3).
//
// Apply always allocates and returns a freshly sized buffer rather than
// writing into a caller-supplied one: the planner/codec path that
// produces streams already knows TargetSize, so there is no benefit to
// the two-step "give me capacity, then fill it" shape the original C
// apply_delta/apply_delta_alloc split used, and collapsing it removes a
// whole class of undersized-buffer bugs.
func Apply(stream *Stream, base []byte) ([]byte, error) {
	if stream == nil {
		return nil, fmt.Errorf("%w: nil stream", ErrInvalidArgument)
	}
	if base != nil && uint32(len(base)) != stream.BaseSize {
		return nil, fmt.Errorf("%w: base buffer is %d bytes, stream expects %d", ErrInvalidArgument, len(base), stream.BaseSize)
	}

	out := make([]byte, stream.TargetSize)
	w := uint32(0)

	for i, op := range stream.Ops {
		if uint64(w)+uint64(op.Length) > uint64(len(out)) {
			return nil, fmt.Errorf("%w: operation %d would write past target size %d", ErrCorruptDelta, i, stream.TargetSize)
		}
		switch op.Type {
		case OpCopy:
			if base == nil {
				return nil, fmt.Errorf("%w: operation %d is Copy but no base buffer was supplied", ErrMissingPredecessor, i)
			}
			copy(out[w:w+op.Length], base[op.SourceOffset:op.SourceOffset+op.Length])
		case OpInsert, OpReplace:
			copy(out[w:w+op.Length], op.Data)
		default:
			return nil, fmt.Errorf("%w: operation %d: unknown operation type %d", ErrCorruptDelta, i, op.Type)
		}
		w += op.Length
	}

	if w != stream.TargetSize {
		return nil, fmt.Errorf("%w: wrote %d bytes, expected %d", ErrCorruptDelta, w, stream.TargetSize)
	}

	return out, nil
}
