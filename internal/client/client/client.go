package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Jar is the metadata record returned by the server.
type Jar struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SHA256    string    `json:"sha256"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
}

// New returns a client for the API at baseURL. timeout bounds metadata calls;
// zero means no limit.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	return &Client{baseURL: u, http: &http.Client{}, timeout: timeout}, nil
}

// apiRoot is the path segment the server mounts its jar routes under.
const apiRoot = "api"

func (c *Client) endpoint(segments ...string) string {
	u := *c.baseURL
	u.Path = u.Path + "/" + strings.Join(escapeAll(segments), "/")
	return u.String()
}

func escapeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = url.PathEscape(s)
	}
	return out
}

// Ping checks that the server answers on /health.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, c.endpoint("health"), nil)
}

// List returns all records, newest first.
func (c *Client) List(ctx context.Context) ([]*Jar, error) {
	var out []*Jar
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(apiRoot, "jars"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one record.
func (c *Client) Get(ctx context.Context, id string) (*Jar, error) {
	var out Jar
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(apiRoot, "jars", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a record and its file, authorized by password.
func (c *Client) Delete(ctx context.Context, id, password string) error {
	u := c.endpoint(apiRoot, "jars", id) + "?" + url.Values{"password": {password}}.Encode()
	return c.doJSON(ctx, http.MethodDelete, u, nil)
}

// doJSON runs a bodiless request under the metadata timeout and decodes the
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, u string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// do sends req and turns transport failures and non-2xx answers into errors.
// On success the caller owns resp.Body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return nil, apiErr
}
