// Package client is the HTTP client for the jarvault API.
//
// # Overview
//
// A Client wraps the vault's REST endpoints: upload (single and bulk,
// streamed as multipart without buffering whole files), list, get,
// download and delete. Downloads are written to a temporary file next to the
// destination and renamed into place once the content digest has been
// checked against the server's ETag.
//
// # Error Handling
//
// Non-2xx responses become *APIError values carrying the status and the
// server's message. APIError unwraps to the matching sentinel from package
// common (ErrorNotFound, ErrorGone, ErrorAlreadyExists, ...), so callers can
// use errors.Is. Transport failures wrap ErrUnavailable.
package client
