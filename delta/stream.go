package delta

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports malformed input to a delta package function
// (nil buffers, zero base size where one is required, and so on).
var ErrInvalidArgument = errors.New("delta: invalid argument")

// ErrCorruptDelta reports an operation stream that violates the
// well-formedness invariants: an out-of-range Copy, a length mismatch, or
// a target_size that overflows uint32.
var ErrCorruptDelta = errors.New("delta: corrupt delta")

// Stream is an ordered sequence of operations describing how to produce a
// target buffer from a base buffer of BaseSize bytes.
type Stream struct {
	BaseSize     uint32
	TargetSize   uint32
	LiteralBytes uint32
	Ops          []Operation
}

// NewStream computes TargetSize and LiteralBytes from ops and baseSize,
// and validates the well-formedness invariants (spec.md §3):
//  1. every Copy's SourceOffset+Length <= baseSize
//  2. TargetSize == sum of operation lengths
//  3. operations are listed in non-decreasing target-position order
//     (enforced here by construction, since TargetSize accumulates in
//     iteration order)
func NewStream(baseSize uint32, ops []Operation) (*Stream, error) {
	s := &Stream{BaseSize: baseSize, Ops: ops}

	var target uint64 // widen to catch overflow before truncating to uint32
	var literal uint64
	for i, op := range ops {
		switch op.Type {
		case OpCopy:
			end := uint64(op.SourceOffset) + uint64(op.Length)
			if end > uint64(baseSize) {
				return nil, fmt.Errorf("%w: operation %d: copy [%d,%d) exceeds base size %d",
					ErrCorruptDelta, i, op.SourceOffset, end, baseSize)
			}
		case OpInsert, OpReplace:
			if uint32(len(op.Data)) != op.Length {
				return nil, fmt.Errorf("%w: operation %d: length %d does not match payload of %d bytes",
					ErrCorruptDelta, i, op.Length, len(op.Data))
			}
			literal += uint64(op.Length)
		default:
			return nil, fmt.Errorf("%w: operation %d: unknown operation type %d", ErrCorruptDelta, i, op.Type)
		}
		target += uint64(op.Length)
	}

	if target > 0xFFFFFFFF {
		return nil, fmt.Errorf("%w: target size %d overflows u32", ErrOverflow, target)
	}

	s.TargetSize = uint32(target)
	s.LiteralBytes = uint32(literal)
	return s, nil
}

// ErrOverflow reports a u32 accumulation overflow while building or
// decoding a stream.
var ErrOverflow = errors.New("delta: overflow")
