// Package models defines server-side data models persisted in the database.
package models

import "time"

// Jar is the metadata row for one stored artifact.
//
// Exactly one regular file lives under the storage root at Name, with
// SHA-256 equal to SHA256 and length SizeBytes, for as long as the row
// exists. Rows are never updated in place.
type Jar struct {
	// ID is a UUID assigned by the repository on creation.
	ID string `json:"id"`
	// Name is the on-disk file name, which may differ from the uploaded one.
	Name string `json:"name"`
	// SHA256 is the hex content digest; unique across all rows.
	SHA256 string `json:"sha256"`
	// SizeBytes is the exact stored length.
	SizeBytes int64 `json:"size_bytes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
