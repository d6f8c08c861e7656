package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/jarvault/internal/hashx"
)

// resolution is the outcome of resolving a desired name for some content.
type resolution struct {
	name string
	// existing is set when a file holding the content is already stored
	// under name; size is then its length on disk.
	existing bool
	size     int64
}

// resolve picks the name under which content with the given digest is or
// should be stored. The desired name wins when it is free or already holds
// the same content. Otherwise "stem (n)ext" candidates are probed in order,
// n starting at 1, until one is free or holds the same content.
//
// Callers must hold e.mu so the answer stays valid until the file is placed.
func (e *Engine) resolve(desiredName, digest string) (resolution, error) {
	res, ok, err := e.probe(desiredName, digest)
	if err != nil || ok {
		return res, err
	}

	stem, ext := splitName(desiredName)
	for n := 1; n <= e.opts.MaxProbes; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		res, ok, err := e.probe(candidate, digest)
		if err != nil || ok {
			return res, err
		}
	}
	return resolution{}, fmt.Errorf("%w: %q after %d attempts", ErrProbesExhausted, desiredName, e.opts.MaxProbes)
}

// probe reports whether name can be used for content with digest: either
// nothing is stored there, or the stored file has the same digest.
func (e *Engine) probe(name, digest string) (resolution, bool, error) {
	path := e.path(name)

	fi, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return resolution{name: name}, true, nil
	}
	if err != nil {
		return resolution{}, false, fmt.Errorf("stat %q: %w", name, err)
	}
	if !fi.Mode().IsRegular() {
		return resolution{}, false, nil
	}

	existing, err := hashx.File(path)
	if err != nil {
		return resolution{}, false, err
	}
	if existing != digest {
		return resolution{}, false, nil
	}
	return resolution{name: name, existing: true, size: fi.Size()}, true, nil
}

// splitName splits a file name into stem and extension the way
// "x.jar" -> ("x", ".jar"). A name that is only a dot-prefixed word,
// like ".jar", has no extension.
func splitName(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name || ext == "." {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}
