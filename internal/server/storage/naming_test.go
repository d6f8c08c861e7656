package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, e *Engine, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.Root(), name), []byte(content), 0o644))
}

func TestResolve_FreeName(t *testing.T) {
	e := newEngine(t)

	res, err := e.resolve("x.jar", helloDigest)
	require.NoError(t, err)
	assert.Equal(t, resolution{name: "x.jar"}, res)
}

func TestResolve_SameContent(t *testing.T) {
	e := newEngine(t)
	writeFile(t, e, "x.jar", "hello")

	res, err := e.resolve("x.jar", helloDigest)
	require.NoError(t, err)
	assert.Equal(t, resolution{name: "x.jar", existing: true, size: 5}, res)
}

func TestResolve_CollisionChain(t *testing.T) {
	e := newEngine(t)
	writeFile(t, e, "x.jar", "unrelated one")
	writeFile(t, e, "x (1).jar", "unrelated two")

	res, err := e.resolve("x.jar", helloDigest)
	require.NoError(t, err)
	assert.Equal(t, "x (2).jar", res.name)
	assert.False(t, res.existing)
}

func TestResolve_DirectoryCountsAsOccupied(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, os.Mkdir(filepath.Join(e.Root(), "x.jar"), 0o755))

	res, err := e.resolve("x.jar", helloDigest)
	require.NoError(t, err)
	assert.Equal(t, "x (1).jar", res.name)
}

func TestResolve_ProbeLimit(t *testing.T) {
	e := newEngine(t, WithMaxProbes(2))
	writeFile(t, e, "x.jar", "0")
	writeFile(t, e, "x (1).jar", "1")
	writeFile(t, e, "x (2).jar", "2")

	_, err := e.resolve("x.jar", helloDigest)
	assert.ErrorIs(t, err, ErrProbesExhausted)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, stem, ext string
	}{
		{"x.jar", "x", ".jar"},
		{"lib.tar.gz", "lib.tar", ".gz"},
		{"noext", "noext", ""},
		{".jar", ".jar", ""},
		{"trailing.", "trailing.", ""},
		{"my mod (1).jar", "my mod (1)", ".jar"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			stem, ext := splitName(tt.in)
			assert.Equal(t, tt.stem, stem)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestWithMaxProbes_IgnoresNonPositive(t *testing.T) {
	opts := defaultOptions()
	WithMaxProbes(0)(opts)
	assert.Equal(t, DefaultMaxProbes, opts.MaxProbes)
	WithMaxProbes(-5)(opts)
	assert.Equal(t, DefaultMaxProbes, opts.MaxProbes)
	WithMaxProbes(7)(opts)
	assert.Equal(t, 7, opts.MaxProbes)
}
