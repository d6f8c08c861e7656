// Package storage keeps artifact bytes on the local filesystem.
//
// Every artifact is a regular file directly under one root directory; there
// is no sharding. At most one file is stored per content digest: saving
// content that is already present under the resolved name is a no-op, and a
// name occupied by different content is resolved to "stem (n).ext".
//
// # Concurrency
//
// An Engine is safe for concurrent use. Uploads are staged into a temporary
// file under <root>/.tmp without holding any lock; name resolution and the
// final rename into place are serialised per Engine. Readers therefore never
// observe a partially written artifact. Separate processes sharing one root
// are not coordinated.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/jarvault/internal/hashx"
)

const tempDirName = ".tmp"

// SaveResult describes where Save put the content.
type SaveResult struct {
	// Name is the final on-disk name, which may differ from the desired one.
	Name string
	// Size is the number of bytes stored under Name.
	Size int64
	// Written is false when a file with the same content already existed
	// under Name and nothing was written.
	Written bool
}

// Engine stores artifact files under a root directory.
type Engine struct {
	root string
	opts *Options
	mu   sync.Mutex
}

// New creates an Engine rooted at root. The root and its temp directory are
// created if missing, and temp files left over by interrupted uploads are
// removed.
func New(root string, opts ...OptionFunc) (*Engine, error) {
	if root == "" {
		return nil, errors.New("storage root is empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	root = filepath.Clean(root)
	if err := os.MkdirAll(root, options.DirMode); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}

	tmp := filepath.Join(root, tempDirName)
	if err := os.RemoveAll(tmp); err != nil {
		return nil, fmt.Errorf("clearing temp directory: %w", err)
	}
	if err := os.MkdirAll(tmp, options.DirMode); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	return &Engine{root: root, opts: options}, nil
}

// Root returns the storage root directory.
func (e *Engine) Root() string {
	return e.root
}

// ComputeDigest hashes rs and rewinds it to the start.
func (e *Engine) ComputeDigest(rs io.ReadSeeker) (string, error) {
	return hashx.DigestSeeker(rs)
}

// Save stores the content of r, whose digest the caller has already
// computed, under desiredName or a collision-free variant of it.
//
// If the resolved name already holds the same content the staged copy is
// dropped and the existing size is reported with Written=false. If r is an
// io.Seeker it is rewound after being consumed.
func (e *Engine) Save(r io.Reader, desiredName, digest string) (SaveResult, error) {
	if err := validateName(desiredName); err != nil {
		return SaveResult{}, err
	}
	if !hashx.Valid(digest) {
		return SaveResult{}, fmt.Errorf("%w: %q", ErrInvalidDigest, digest)
	}

	staged, size, err := e.stage(r, digest)
	if err != nil {
		return SaveResult{}, err
	}
	defer os.Remove(staged)

	if s, ok := r.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return SaveResult{}, fmt.Errorf("rewinding stream: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.resolve(desiredName, digest)
	if err != nil {
		return SaveResult{}, err
	}
	if res.existing {
		return SaveResult{Name: res.name, Size: res.size}, nil
	}

	if err := os.Rename(staged, e.path(res.name)); err != nil {
		return SaveResult{}, fmt.Errorf("placing %q: %w", res.name, err)
	}
	return SaveResult{Name: res.name, Size: size, Written: true}, nil
}

// stage copies r into a fresh temp file, hashing on the way, and checks the
// result against digest. The caller removes the returned path.
func (e *Engine) stage(r io.Reader, digest string) (string, int64, error) {
	f, err := os.CreateTemp(filepath.Join(e.root, tempDirName), "upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()

	h := sha256.New()
	size, err := io.CopyBuffer(io.MultiWriter(f, h), r, make([]byte, hashx.ChunkSize))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(path, e.opts.FileMode)
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("writing temp file: %w", err)
	}

	if got := hex.EncodeToString(h.Sum(nil)); got != digest {
		os.Remove(path)
		return "", 0, fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, digest, got)
	}
	return path, size, nil
}

// Exists reports whether a regular file is stored under name.
func (e *Engine) Exists(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	fi, err := os.Stat(e.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// Delete removes the file stored under name. Deleting a missing file is not
// an error.
func (e *Engine) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err := os.Remove(e.path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	return nil
}

// Open opens the file stored under name for reading. Anything other than a
// regular file counts as missing, matching Exists.
func (e *Engine) Open(name string) (*os.File, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(e.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("opening %q: %w", name, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening %q: %w", name, err)
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%q is not a regular file: %w", name, ErrNotFound)
	}
	return f, nil
}

func (e *Engine) path(name string) string {
	return filepath.Join(e.root, name)
}

// validateName accepts only names that map to a direct child of the root.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || name == tempDirName {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if filepath.Base(name) != name || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '/' || name[i] == '\\' || name[i] == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}
