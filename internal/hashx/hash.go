// Package hashx computes the content digests used as deduplication keys.
//
// A digest is the SHA-256 of the content rendered as 64 lowercase hex
// characters. Streams are consumed in fixed 8 KiB chunks so memory use does
// not depend on the size of the input.
package hashx

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the read buffer size used while hashing and copying content.
const ChunkSize = 8 << 10

// Size is the length of a hex-encoded digest.
const Size = sha256.Size * 2

// Digest hashes everything remaining in r.
func Digest(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.CopyBuffer(h, r, make([]byte, ChunkSize)); err != nil {
		return "", fmt.Errorf("hashing stream: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestSeeker hashes rs and rewinds it to the start, so the caller can read
// the same content again to persist it.
func DigestSeeker(rs io.ReadSeeker) (string, error) {
	d, err := Digest(rs)
	if err != nil {
		return "", err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding stream: %w", err)
	}
	return d, nil
}

// File hashes the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer f.Close()

	d, err := Digest(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Valid reports whether s is a well-formed lowercase hex digest.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
