package client

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// Upload sends one local file to POST /api/jars.
func (c *Client) Upload(ctx context.Context, path string) (*Jar, error) {
	var out Jar
	if err := c.postFiles(ctx, c.endpoint(apiRoot, "jars"), "file", []string{path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadBulk sends several files to POST /api/jars/bulk and returns the records
// the server created. Skipped files are simply absent from the result.
func (c *Client) UploadBulk(ctx context.Context, paths []string) ([]*Jar, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to upload")
	}
	var out []*Jar
	if err := c.postFiles(ctx, c.endpoint(apiRoot, "jars", "bulk"), "files", paths, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// postFiles streams the files as a multipart body through a pipe, so memory
// use does not grow with file size.
func (c *Client) postFiles(ctx context.Context, u, field string, paths []string, out any) error {
	// Fail early on unreadable paths rather than mid-stream.
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return err
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(mw, field, paths))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, pr)
	if err != nil {
		pr.Close()
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		pr.Close()
		return err
	}
	defer resp.Body.Close()

	return decodeJSON(resp, out)
}

func writeParts(mw *multipart.Writer, field string, paths []string) error {
	for _, p := range paths {
		if err := writePart(mw, field, p); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
