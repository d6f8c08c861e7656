package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/jarvault/internal/hashx"
)

// Download fetches the file of record id. dest may be empty (current
// directory), an existing directory, or a file path; for the first two the
// server-supplied file name is used. It returns the path written and the
// number of bytes.
func (c *Client) Download(ctx context.Context, id, dest string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(apiRoot, "jars", id, "download"), nil)
	if err != nil {
		return "", 0, err
	}

	resp, err := c.do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	target, err := downloadTarget(dest, attachmentName(resp.Header.Get("Content-Disposition"), id))
	if err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".jarvault-*")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	n, err := io.CopyBuffer(io.MultiWriter(tmp, h), resp.Body, make([]byte, hashx.ChunkSize))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, fmt.Errorf("writing %s: %w", target, err)
	}

	if etag, err := strconv.Unquote(resp.Header.Get("ETag")); err == nil && hashx.Valid(etag) {
		if got := hex.EncodeToString(h.Sum(nil)); got != etag {
			return "", 0, fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, etag, got)
		}
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", 0, err
	}
	return target, n, nil
}

// attachmentName extracts a safe base name from a Content-Disposition value.
func attachmentName(header, id string) string {
	fallback := id + ".jar"
	if header == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == "/" || name == ".." || name == "" {
		return fallback
	}
	return name
}

func downloadTarget(dest, name string) (string, error) {
	if dest == "" {
		return name, nil
	}
	fi, err := os.Stat(dest)
	switch {
	case err == nil && fi.IsDir():
		return filepath.Join(dest, name), nil
	case err == nil || errors.Is(err, os.ErrNotExist):
		return dest, nil
	default:
		return "", err
	}
}

func decodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
