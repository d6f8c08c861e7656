package hashx

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestDigest_KnownValue(t *testing.T) {
	d, err := Digest(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, helloDigest, d)
	assert.Len(t, d, Size)
}

func TestDigest_Deterministic(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("x"),
		bytes.Repeat([]byte{0xAB}, ChunkSize-1),
		bytes.Repeat([]byte{0xCD}, ChunkSize),
		bytes.Repeat([]byte{0xEF}, 3*ChunkSize+17),
	}
	for _, in := range inputs {
		a, err := Digest(bytes.NewReader(in))
		require.NoError(t, err)
		b, err := Digest(bytes.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, a, b)

		want := sha256.Sum256(in)
		assert.Equal(t, hex.EncodeToString(want[:]), a)
	}
}

func TestDigest_DifferentContent(t *testing.T) {
	a, err := Digest(strings.NewReader("hello"))
	require.NoError(t, err)
	b, err := Digest(strings.NewReader("world"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDigest_ReadError(t *testing.T) {
	d, err := Digest(failingReader{})
	require.Error(t, err)
	assert.Empty(t, d)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestDigestSeeker_RewindsStream(t *testing.T) {
	r := bytes.NewReader([]byte("hello"))

	d, err := DigestSeeker(r)
	require.NoError(t, err)
	assert.Equal(t, helloDigest, d)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(rest), "stream must be readable again from the start")
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jar")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	d, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, helloDigest, d)
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.jar"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(helloDigest))
	assert.False(t, Valid(""))
	assert.False(t, Valid(helloDigest[:63]))
	assert.False(t, Valid(strings.ToUpper(helloDigest)))
	assert.False(t, Valid(strings.Repeat("g", Size)))
}
