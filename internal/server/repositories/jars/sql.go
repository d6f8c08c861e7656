package jars

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/jarvault/internal/common"
	"github.com/dmitrijs2005/jarvault/internal/dbx"
	"github.com/dmitrijs2005/jarvault/internal/server/models"
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// The queries run unchanged on PostgreSQL (pgx) and SQLite.
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const jarColumns = `id, name, sha256, size_bytes, created_at, updated_at`

// Create inserts a new row, assigning ID and timestamps. The input is not
// modified.
func (r *SQLRepository) Create(ctx context.Context, jar *models.Jar) (*models.Jar, error) {
	// Microseconds are the finest precision PostgreSQL keeps.
	now := time.Now().UTC().Truncate(time.Microsecond)

	rec := *jar
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `INSERT INTO jars (` + jarColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.SHA256, rec.SizeBytes, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("jar with sha256 %s: %w", rec.SHA256, common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

// GetByID returns the row with the given id.
func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Jar, error) {
	query := `SELECT ` + jarColumns + ` FROM jars WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetBySHA256 returns the row holding the given content digest.
func (r *SQLRepository) GetBySHA256(ctx context.Context, sha256 string) (*models.Jar, error) {
	query := `SELECT ` + jarColumns + ` FROM jars WHERE sha256 = $1`
	return r.getOne(ctx, query, sha256)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.Jar, error) {
	jar := &models.Jar{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&jar.ID, &jar.Name, &jar.SHA256, &jar.SizeBytes, &jar.CreatedAt, &jar.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select jar: %w", err)
	}
	return jar, nil
}

// List returns all rows, newest first.
func (r *SQLRepository) List(ctx context.Context) ([]*models.Jar, error) {
	query := `SELECT ` + jarColumns + ` FROM jars ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select jars: %w", err)
	}
	defer rows.Close()

	result := []*models.Jar{}
	for rows.Next() {
		var item models.Jar
		if err := rows.Scan(&item.ID, &item.Name, &item.SHA256, &item.SizeBytes, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the row with the given id. Exactly one row must go.
func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM jars WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete jar: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
