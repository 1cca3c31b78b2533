package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(NewConfig(WithRoot(t.TempDir())))
	require.NoError(t, err)
	return s
}

func TestAppendFirstVersionHasNoBase(t *testing.T) {
	s := newTestStore(t)

	v, err := s.Append("greeting.txt", []byte("Hello World!"), "initial import")
	require.NoError(t, err)
	require.EqualValues(t, 1, v)

	got, err := s.Reconstruct("greeting.txt", 1)
	require.NoError(t, err)
	require.Equal(t, "Hello World!", string(got))
}

func TestAppendMonotoneVersions(t *testing.T) {
	s := newTestStore(t)

	v1, err := s.Append("chain.txt", []byte("abc"), "")
	require.NoError(t, err)
	v2, err := s.Append("chain.txt", []byte("abcd"), "")
	require.NoError(t, err)
	v3, err := s.Append("chain.txt", []byte("abcde"), "")
	require.NoError(t, err)

	require.EqualValues(t, 1, v1)
	require.EqualValues(t, 2, v2)
	require.EqualValues(t, 3, v3)
}

// TestVersionChainScenario reproduces spec.md's S6 scenario end to end.
func TestVersionChainScenario(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Append("story.txt", []byte("abc"), "v1")
	require.NoError(t, err)
	_, err = s.Append("story.txt", []byte("abcd"), "v2")
	require.NoError(t, err)
	_, err = s.Append("story.txt", []byte("abcde"), "v3")
	require.NoError(t, err)

	got, err := s.Reconstruct("story.txt", 3)
	require.NoError(t, err)
	require.Equal(t, "abcde", string(got))

	versions, err := s.Enumerate("story.txt")
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3}, versions)
}

func TestEnumerateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append("f.bin", []byte("data"), "")
	require.NoError(t, err)

	first, err := s.Enumerate("f.bin")
	require.NoError(t, err)
	second, err := s.Enumerate("f.bin")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnumerateUnknownNameReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	versions, err := s.Enumerate("never-tracked.txt")
	require.NoError(t, err)
	require.Empty(t, versions)
}

func TestReconstructNoSuchVersion(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append("f.bin", []byte("data"), "")
	require.NoError(t, err)

	_, err = s.Reconstruct("f.bin", 5)
	require.ErrorIs(t, err, ErrNoSuchVersion)
}

func TestDeleteOnlyAllowsTail(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append("f.bin", []byte("one"), "")
	require.NoError(t, err)
	_, err = s.Append("f.bin", []byte("two"), "")
	require.NoError(t, err)

	err = s.Delete("f.bin", 1)
	require.ErrorIs(t, err, ErrChainConflict)

	err = s.Delete("f.bin", 2)
	require.NoError(t, err)

	versions, err := s.Enumerate("f.bin")
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, versions)
}

func TestSafeNameCollapsesSeparators(t *testing.T) {
	require.Equal(t, "a_b_c", safeName("a/b\\c"))
	require.Equal(t, "c_path", safeName("c:path"))
}

func TestLoadStreamMatchesReconstructedSize(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append("doc.txt", []byte("first version of the document"), "")
	require.NoError(t, err)
	_, err = s.Append("doc.txt", []byte("first version of the document, now revised"), "")
	require.NoError(t, err)

	baseSize, stream, err := s.LoadStream("doc.txt", 2)
	require.NoError(t, err)
	require.EqualValues(t, len("first version of the document"), baseSize)
	require.NotNil(t, stream)
}

func TestAppendWithPathLikeNameStaysWithinRoot(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append("nested/dir/file.txt", []byte("contents"), "")
	require.NoError(t, err)

	got, err := s.Reconstruct("nested/dir/file.txt", 1)
	require.NoError(t, err)
	require.Equal(t, "contents", string(got))
}
