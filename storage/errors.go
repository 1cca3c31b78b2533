package storage

import (
	"errors"

	"fiver/delta"
)

// Error taxonomy per spec.md §7. CorruptDelta, MissingPredecessor and
// Overflow are the delta package's own sentinels re-exported here so
// callers never need to import both packages to use errors.Is.
var (
	// ErrInvalidArgument reports malformed input: empty names, version 0,
	// a nil byte slice where one is required.
	ErrInvalidArgument = errors.New("storage: invalid argument")

	// ErrNoSuchVersion reports a requested version absent from the chain.
	ErrNoSuchVersion = errors.New("storage: no such version")

	// ErrChainConflict reports a Delete of a version that is not the
	// chain's current tail. Append does not detect concurrent writers and
	// never returns it.
	ErrChainConflict = errors.New("storage: chain conflict")

	// ErrCorruptMetadata reports a .meta record that is the wrong size or
	// otherwise fails to parse.
	ErrCorruptMetadata = errors.New("storage: corrupt metadata")

	// ErrIoError wraps an underlying filesystem error (open/read/write/
	// rename/remove) encountered while serving a storage operation.
	ErrIoError = errors.New("storage: io error")

	ErrCorruptDelta       = delta.ErrCorruptDelta
	ErrMissingPredecessor = delta.ErrMissingPredecessor
	ErrOverflow           = delta.ErrOverflow
)
