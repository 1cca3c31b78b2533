// Package storage implements the version chain (C8) and metadata record
// (C9): a small on-disk store where each tracked file is a chain of
// `.delta`/`.meta` pairs, one per version, replayed from version 1 to
// reconstruct any later version.
package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/natefinch/atomic"

	"fiver/delta"
	"fiver/deltaengine"
)

// Store is the version chain manager for a storage root. A Store is safe
// for concurrent Reconstruct calls against a given logical name as long as
// no Append or Delete is in flight for that same name (spec.md §5) —
// serialising writers per name is the caller's responsibility.
type Store struct {
	cfg Config
}

// New creates a Store rooted at cfg.Root, creating the directory if it
// does not already exist.
func New(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: storage root is empty", ErrInvalidArgument)
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage root %q: %v", ErrIoError, cfg.Root, err)
	}
	return &Store{cfg: cfg}, nil
}

// safeName replaces path separators and the drive-letter colon with '_' so
// a logical name can never escape the storage root or collide with an
// unrelated file differing only in separator choice (spec.md §6). It must
// be applied identically on every read and write path.
func safeName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return r.Replace(name)
}

func (s *Store) deltaPath(name string, version uint32) string {
	return filepath.Join(s.cfg.Root, fmt.Sprintf("%s_v%d.delta", safeName(name), version))
}

func (s *Store) metaPath(name string, version uint32) string {
	return filepath.Join(s.cfg.Root, fmt.Sprintf("%s_v%d.meta", safeName(name), version))
}

// metaSuffixPattern matches the "<version>.meta" tail left after a
// filename's "<safe(name)>_v" prefix has been stripped.
var metaSuffixPattern = regexp.MustCompile(`^(\d+)\.meta$`)

// Enumerate returns the sorted list of existing version numbers for name,
// scanning the storage root directory rather than probing a fixed range
// (spec.md §9's REDESIGN FLAG on the source's 1..100 probe).
func (s *Store) Enumerate(name string) ([]uint32, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrInvalidArgument)
	}

	entries, err := os.ReadDir(s.cfg.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read storage root %q: %v", ErrIoError, s.cfg.Root, err)
	}

	prefix := safeName(name) + "_v"
	var versions []uint32
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fn := e.Name()
		rest, ok := strings.CutPrefix(fn, prefix)
		if !ok {
			continue
		}
		m := metaSuffixPattern.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		v, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			continue
		}
		if _, err := os.Stat(s.deltaPath(name, uint32(v))); err != nil {
			s.cfg.log().Warn("orphaned metadata record with no matching delta",
				"name", name, "version", v)
			continue
		}
		versions = append(versions, uint32(v))
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions, nil
}

// Reconstruct replays versions 1..version in order and returns version's
// bytes (spec.md §4.9). Implemented iteratively, not recursively.
func (s *Store) Reconstruct(name string, version uint32) ([]byte, error) {
	if name == "" || version == 0 {
		return nil, fmt.Errorf("%w: name is empty or version is 0", ErrInvalidArgument)
	}

	versions, err := s.Enumerate(name)
	if err != nil {
		return nil, err
	}
	if !containsVersion(versions, version) {
		return nil, fmt.Errorf("%w: %s version %d", ErrNoSuchVersion, name, version)
	}

	var buf []byte
	for v := uint32(1); v <= version; v++ {
		stream, _, err := s.loadStreamRaw(name, v)
		if err != nil {
			return nil, err
		}
		out, err := delta.Apply(stream, buf)
		if err != nil {
			return nil, fmt.Errorf("replaying version %d of %s: %w", v, name, err)
		}
		buf = out
	}
	return buf, nil
}

// LoadStream decodes version's operation stream without replaying the
// whole chain, for display purposes (spec.md §6 load_stream, used by
// diff).
func (s *Store) LoadStream(name string, version uint32) (uint32, *delta.Stream, error) {
	if name == "" || version == 0 {
		return 0, nil, fmt.Errorf("%w: name is empty or version is 0", ErrInvalidArgument)
	}
	stream, meta, err := s.loadStreamRaw(name, version)
	if err != nil {
		return 0, nil, err
	}
	return meta.BaseSize, stream, nil
}

// Metadata returns version's metadata record without decoding its delta
// payload, for commit-log style listings (SPEC_FULL.md §4).
func (s *Store) Metadata(name string, version uint32) (FileMetadata, error) {
	if name == "" || version == 0 {
		return FileMetadata{}, fmt.Errorf("%w: name is empty or version is 0", ErrInvalidArgument)
	}
	metaBytes, err := os.ReadFile(s.metaPath(name, version))
	if err != nil {
		if os.IsNotExist(err) {
			return FileMetadata{}, fmt.Errorf("%w: %s version %d", ErrNoSuchVersion, name, version)
		}
		return FileMetadata{}, fmt.Errorf("%w: read metadata for %s v%d: %v", ErrIoError, name, version, err)
	}
	return decodeMetadata(metaBytes)
}

func (s *Store) loadStreamRaw(name string, version uint32) (*delta.Stream, FileMetadata, error) {
	metaBytes, err := os.ReadFile(s.metaPath(name, version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, FileMetadata{}, fmt.Errorf("%w: %s version %d", ErrNoSuchVersion, name, version)
		}
		return nil, FileMetadata{}, fmt.Errorf("%w: read metadata for %s v%d: %v", ErrIoError, name, version, err)
	}
	meta, err := decodeMetadata(metaBytes)
	if err != nil {
		return nil, FileMetadata{}, err
	}

	deltaBytes, err := os.ReadFile(s.deltaPath(name, version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, FileMetadata{}, fmt.Errorf("%w: %s version %d has metadata but no delta", ErrNoSuchVersion, name, version)
		}
		return nil, FileMetadata{}, fmt.Errorf("%w: read delta for %s v%d: %v", ErrIoError, name, version, err)
	}

	stream, err := delta.Decode(deltaBytes, meta.BaseSize, meta.OperationCount)
	if err != nil {
		return nil, FileMetadata{}, err
	}
	return stream, meta, nil
}

// Append deltifies newBytes against the chain's current head (or, if the
// chain is empty, stores it verbatim as version 1) and writes the new
// version's `.delta` and `.meta` files atomically (spec.md §4.9).
func (s *Store) Append(name string, newBytes []byte, message string) (uint32, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: name is empty", ErrInvalidArgument)
	}

	versions, err := s.Enumerate(name)
	if err != nil {
		return 0, err
	}

	var stream *delta.Stream
	var version uint32

	if len(versions) == 0 {
		version = 1
		stream, err = delta.NewStream(0, []delta.Operation{delta.Insert(append([]byte(nil), newBytes...))})
		if err != nil {
			return 0, err
		}
	} else {
		head := versions[len(versions)-1]
		base, err := s.Reconstruct(name, head)
		if err != nil {
			return 0, err
		}
		stream, err = deltaengine.Deltify(base, newBytes)
		if err != nil {
			return 0, err
		}
		version = head + 1
	}

	return version, s.writeVersion(name, version, stream, newBytes, message)
}

func (s *Store) writeVersion(name string, version uint32, stream *delta.Stream, newBytes []byte, message string) error {
	var deltaBuf bytes.Buffer
	if err := delta.Encode(&deltaBuf, stream); err != nil {
		return fmt.Errorf("encoding delta for %s v%d: %w", name, version, err)
	}

	deltaPath := s.deltaPath(name, version)
	if err := atomic.WriteFile(deltaPath, bytes.NewReader(deltaBuf.Bytes())); err != nil {
		return fmt.Errorf("%w: write delta for %s v%d: %v", ErrIoError, name, version, err)
	}

	checksum := fmt.Sprintf("%016x", xxhash.Sum64(newBytes))
	meta := FileMetadata{
		Filename:       name,
		Version:        version,
		BaseSize:       stream.BaseSize,
		DeltaSize:      stream.LiteralBytes,
		OperationCount: uint32(len(stream.Ops)),
		Timestamp:      nowUnix(),
		Checksum:       checksum,
		Message:        message,
	}
	metaBytes, err := encodeMetadata(meta)
	if err != nil {
		_ = os.Remove(deltaPath)
		return fmt.Errorf("encoding metadata for %s v%d: %w", name, version, err)
	}

	if err := atomic.WriteFile(s.metaPath(name, version), bytes.NewReader(metaBytes)); err != nil {
		// The ordering guarantee (spec.md §5) requires .delta be visible
		// before .meta; a failure here leaves an orphan .delta, which
		// Enumerate ignores since it lists versions by their .meta
		// files. Best-effort cleanup
		// mirrors the source's unlink-on-failure behaviour (spec.md §4.9
		// step 5) for the common case where the rename itself failed.
		_ = os.Remove(deltaPath)
		return fmt.Errorf("%w: write metadata for %s v%d: %v", ErrIoError, name, version, err)
	}

	s.cfg.log().Info("appended version", "name", name, "version", version,
		"operations", len(stream.Ops), "literal_bytes", stream.LiteralBytes)
	return nil
}

// Delete removes version's `.delta` and `.meta` files. Only the chain's
// current tail may be deleted; removing a non-tail version would make
// later versions unreconstructible (spec.md §9 open question 4), so this
// implementation forbids it rather than reproducing the source's silent
// corruption.
func (s *Store) Delete(name string, version uint32) error {
	if name == "" || version == 0 {
		return fmt.Errorf("%w: name is empty or version is 0", ErrInvalidArgument)
	}

	versions, err := s.Enumerate(name)
	if err != nil {
		return err
	}
	if !containsVersion(versions, version) {
		return fmt.Errorf("%w: %s version %d", ErrNoSuchVersion, name, version)
	}
	if version != versions[len(versions)-1] {
		return fmt.Errorf("%w: %s version %d is not the chain tail", ErrChainConflict, name, version)
	}

	deltaErr := os.Remove(s.deltaPath(name, version))
	if deltaErr != nil && !os.IsNotExist(deltaErr) {
		return fmt.Errorf("%w: remove delta for %s v%d: %v", ErrIoError, name, version, deltaErr)
	}
	metaErr := os.Remove(s.metaPath(name, version))
	if metaErr != nil && !os.IsNotExist(metaErr) {
		return fmt.Errorf("%w: remove metadata for %s v%d: %v", ErrIoError, name, version, metaErr)
	}

	s.cfg.log().Info("deleted version", "name", name, "version", version)
	return nil
}

func containsVersion(versions []uint32, v uint32) bool {
	for _, existing := range versions {
		if existing == v {
			return true
		}
	}
	return false
}

// nowUnix is a seam so metadata timestamps are a single call site.
var nowUnix = func() int64 { return timeNowFunc().Unix() }

var timeNowFunc = time.Now
