package storage

import "errors"

var (
	// ErrNotFound is returned when no file exists under the requested name.
	ErrNotFound = errors.New("file not found in storage")
	// ErrInvalidName is returned for names that are not a single flat path element.
	ErrInvalidName = errors.New("invalid file name")
	// ErrInvalidDigest is returned when the expected digest is not a hex SHA-256.
	ErrInvalidDigest = errors.New("invalid content digest")
	// ErrDigestMismatch is returned when the saved bytes do not hash to the expected digest.
	ErrDigestMismatch = errors.New("content does not match digest")
	// ErrProbesExhausted is returned when no free or matching name was found
	// within the configured number of collision probes.
	ErrProbesExhausted = errors.New("no free file name within probe limit")
)
