// Package delta defines the operation-stream data model used to describe
// how one version of a file was derived from its predecessor, and the
// codec and reconstructor that serialise and replay that model.
package delta

import "fmt"

// OpType tags an Operation's kind. The wire values match spec.md's codec
// alphabet exactly: 0 = Copy, 1 = Insert, 2 = Replace.
type OpType uint32

const (
	// OpCopy copies Length bytes from the base buffer starting at
	// SourceOffset.
	OpCopy OpType = 0
	// OpInsert emits Length literal bytes carried in Data.
	OpInsert OpType = 1
	// OpReplace is decodable for forward compatibility but is never
	// emitted by the planner. The reconstructor treats it identically
	// to OpInsert.
	OpReplace OpType = 2
)

func (t OpType) String() string {
	switch t {
	case OpCopy:
		return "Copy"
	case OpInsert:
		return "Insert"
	case OpReplace:
		return "Replace"
	default:
		return fmt.Sprintf("OpType(%d)", uint32(t))
	}
}

// Operation is one step of an operation stream: either a Copy from the
// base buffer or a literal insertion.
type Operation struct {
	Type         OpType
	SourceOffset uint32 // meaningful only for OpCopy
	Length       uint32
	Data         []byte // meaningful only for OpInsert/OpReplace
}

// Copy builds a Copy operation.
func Copy(sourceOffset, length uint32) Operation {
	return Operation{Type: OpCopy, SourceOffset: sourceOffset, Length: length}
}

// Insert builds an Insert operation. The operation owns the given slice;
// callers should not mutate it afterward.
func Insert(data []byte) Operation {
	return Operation{Type: OpInsert, Length: uint32(len(data)), Data: data}
}

func (op Operation) String() string {
	switch op.Type {
	case OpCopy:
		return fmt.Sprintf("Copy(%d, %d)", op.SourceOffset, op.Length)
	case OpInsert, OpReplace:
		return fmt.Sprintf("%s(%d bytes)", op.Type, op.Length)
	default:
		return fmt.Sprintf("invalid(%d)", op.Type)
	}
}
