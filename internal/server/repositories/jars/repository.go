// Package jars persists artifact metadata rows.
package jars

import (
	"context"

	"github.com/dmitrijs2005/jarvault/internal/server/models"
)

// Repository is the metadata store behind the vault. SHA256 is unique across
// rows; Create rejects a second row for the same digest with
// common.ErrorAlreadyExists. Lookups of absent rows return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, jar *models.Jar) (*models.Jar, error)
	GetByID(ctx context.Context, id string) (*models.Jar, error)
	GetBySHA256(ctx context.Context, sha256 string) (*models.Jar, error)
	List(ctx context.Context) ([]*models.Jar, error)
	Delete(ctx context.Context, id string) error
}
