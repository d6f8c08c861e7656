package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jarvault/internal/common"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrDigestMismatch = errors.New("downloaded content does not match digest")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code back to the sentinel the server started from.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusGone:
		return common.ErrorGone
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusInternalServerError:
		return common.ErrorInternal
	default:
		return nil
	}
}
