package delta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// bin is the fixed wire byte order for every on-disk delta record.
// spec.md §9 open question 2 flags the original C implementation's use of
// host byte order as a portability bug; this implementation fixes the
// wire format to little-endian instead of reproducing that hazard.
var bin = binary.LittleEndian

// headerSize is the fixed per-operation header: u32 type, u32
// source_offset, u32 length.
const headerSize = 12

// Encode serialises a Stream's operations to the §4.7 wire format: each
// operation is a 12-byte header followed by its payload (Insert/Replace
// only). base_size, target_size, and the operation count are not part of
// this encoding — they live in the sibling metadata record.
func Encode(w io.Writer, s *Stream) error {
	var hdr [headerSize]byte
	for i, op := range s.Ops {
		bin.PutUint32(hdr[0:4], uint32(op.Type))
		bin.PutUint32(hdr[4:8], op.SourceOffset)
		bin.PutUint32(hdr[8:12], op.Length)
		if _, err := w.Write(hdr[:]); err != nil {
			return fmt.Errorf("delta: encode operation %d header: %w", i, err)
		}
		switch op.Type {
		case OpInsert, OpReplace:
			if _, err := w.Write(op.Data); err != nil {
				return fmt.Errorf("delta: encode operation %d payload: %w", i, err)
			}
		}
	}
	return nil
}

// Decode reads operationCount operations from data, validating each Copy
// against baseSize and rejecting any length that would run past the end
// of data. Any violation is fatal and reported via ErrCorruptDelta.
func Decode(data []byte, baseSize uint32, operationCount uint32) (*Stream, error) {
	ops := make([]Operation, 0, operationCount)
	pos := 0

	for i := uint32(0); i < operationCount; i++ {
		if pos+headerSize > len(data) {
			return nil, fmt.Errorf("%w: operation %d: truncated header", ErrCorruptDelta, i)
		}
		opType := OpType(bin.Uint32(data[pos : pos+4]))
		sourceOffset := bin.Uint32(data[pos+4 : pos+8])
		length := bin.Uint32(data[pos+8 : pos+12])
		pos += headerSize

		op := Operation{Type: opType, SourceOffset: sourceOffset, Length: length}

		switch opType {
		case OpCopy:
			end := uint64(sourceOffset) + uint64(length)
			if end > uint64(baseSize) {
				return nil, fmt.Errorf("%w: operation %d: copy [%d,%d) exceeds base size %d",
					ErrCorruptDelta, i, sourceOffset, end, baseSize)
			}
		case OpInsert, OpReplace:
			if uint64(pos)+uint64(length) > uint64(len(data)) {
				return nil, fmt.Errorf("%w: operation %d: length %d exceeds remaining %d bytes",
					ErrCorruptDelta, i, length, len(data)-pos)
			}
			op.Data = append([]byte(nil), data[pos:pos+int(length)]...)
			pos += int(length)
		default:
			return nil, fmt.Errorf("%w: operation %d: unknown operation type %d", ErrCorruptDelta, i, opType)
		}

		ops = append(ops, op)
	}

	s, err := NewStream(baseSize, ops)
	if errors.Is(err, ErrOverflow) {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDelta, err)
	}
	return s, err
}
