package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadataRoundTrip(t *testing.T) {
	m := FileMetadata{
		Filename:       "report.csv",
		Version:        3,
		BaseSize:       4096,
		DeltaSize:      128,
		OperationCount: 5,
		Timestamp:      1700000000,
		Checksum:       "deadbeefcafef00d",
		Message:        "quarterly numbers",
	}

	encoded, err := encodeMetadata(m)
	require.NoError(t, err)
	require.Len(t, encoded, metadataRecordSize)

	decoded, err := decodeMetadata(encoded)
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}

func TestMetadataRejectsOversizedFilename(t *testing.T) {
	m := FileMetadata{Filename: string(make([]byte, filenameFieldSize))}
	_, err := encodeMetadata(m)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDecodeMetadataRejectsWrongSize(t *testing.T) {
	_, err := decodeMetadata([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrCorruptMetadata)
}

func TestMetadataEmptyOptionalFields(t *testing.T) {
	m := FileMetadata{Filename: "x", Version: 1}
	encoded, err := encodeMetadata(m)
	require.NoError(t, err)

	decoded, err := decodeMetadata(encoded)
	require.NoError(t, err)
	require.Empty(t, decoded.Checksum)
	require.Empty(t, decoded.Message)
}
