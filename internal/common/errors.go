// Package common defines sentinel errors shared by the service and transport
// layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Storage consistency: metadata row present, file missing on disk.
	ErrorGone = errors.New("file missing from storage")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorValidation    = errors.New("validation error")
	ErrorMisconfigured = errors.New("server misconfigured")

	// Delete authorization errors.
	ErrorPasswordRequired = errors.New("password is required")
	ErrorForbidden        = errors.New("invalid password")
)
