package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Fixed-width field sizes for the on-disk metadata record (spec.md §4.10).
// Each bounded string is stored NUL-padded to its full width.
const (
	filenameFieldSize = 256 // 255 chars + NUL
	checksumFieldSize = 64  // 63 chars + NUL
	messageFieldSize  = 256 // 255 chars + NUL

	metadataRecordSize = filenameFieldSize + 4 + 4 + 4 + 4 + 8 + checksumFieldSize + messageFieldSize
)

// FileMetadata is the fixed-layout header describing one version (C9).
type FileMetadata struct {
	Filename       string
	Version        uint32
	BaseSize       uint32
	DeltaSize      uint32
	OperationCount uint32
	Timestamp      int64
	Checksum       string
	Message        string
}

// bin is the fixed wire byte order, matching the delta package's codec
// (spec.md §9 open question 2 — the source's host-byte-order records are
// not reproduced).
var bin = binary.LittleEndian

func encodeMetadata(m FileMetadata) ([]byte, error) {
	if len(m.Filename) > filenameFieldSize-1 {
		return nil, fmt.Errorf("%w: filename %q exceeds %d bytes", ErrInvalidArgument, m.Filename, filenameFieldSize-1)
	}
	if len(m.Checksum) > checksumFieldSize-1 {
		return nil, fmt.Errorf("%w: checksum exceeds %d bytes", ErrInvalidArgument, checksumFieldSize-1)
	}
	if len(m.Message) > messageFieldSize-1 {
		return nil, fmt.Errorf("%w: message exceeds %d bytes", ErrInvalidArgument, messageFieldSize-1)
	}

	buf := make([]byte, metadataRecordSize)
	pos := 0

	putString(buf[pos:pos+filenameFieldSize], m.Filename)
	pos += filenameFieldSize

	bin.PutUint32(buf[pos:pos+4], m.Version)
	pos += 4
	bin.PutUint32(buf[pos:pos+4], m.BaseSize)
	pos += 4
	bin.PutUint32(buf[pos:pos+4], m.DeltaSize)
	pos += 4
	bin.PutUint32(buf[pos:pos+4], m.OperationCount)
	pos += 4
	bin.PutUint64(buf[pos:pos+8], uint64(m.Timestamp))
	pos += 8

	putString(buf[pos:pos+checksumFieldSize], m.Checksum)
	pos += checksumFieldSize
	putString(buf[pos:pos+messageFieldSize], m.Message)

	return buf, nil
}

func decodeMetadata(data []byte) (FileMetadata, error) {
	if len(data) != metadataRecordSize {
		return FileMetadata{}, fmt.Errorf("%w: metadata record is %d bytes, expected %d",
			ErrCorruptMetadata, len(data), metadataRecordSize)
	}

	pos := 0
	m := FileMetadata{}

	m.Filename = getString(data[pos : pos+filenameFieldSize])
	pos += filenameFieldSize

	m.Version = bin.Uint32(data[pos : pos+4])
	pos += 4
	m.BaseSize = bin.Uint32(data[pos : pos+4])
	pos += 4
	m.DeltaSize = bin.Uint32(data[pos : pos+4])
	pos += 4
	m.OperationCount = bin.Uint32(data[pos : pos+4])
	pos += 4
	m.Timestamp = int64(bin.Uint64(data[pos : pos+8]))
	pos += 8

	m.Checksum = getString(data[pos : pos+checksumFieldSize])
	pos += checksumFieldSize
	m.Message = getString(data[pos : pos+messageFieldSize])

	return m, nil
}

func putString(field []byte, s string) {
	for i := range field {
		field[i] = 0
	}
	copy(field, s)
}

func getString(field []byte) string {
	end := bytes.IndexByte(field, 0)
	if end < 0 {
		end = len(field)
	}
	return string(field[:end])
}
