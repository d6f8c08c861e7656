// Package dbx holds the database plumbing shared by the jar repositories.
//
// Repositories are written against DBTX so the same code runs on the pool
// for single statements (lookups, single uploads, deletes) and inside a
// transaction for bulk uploads, where every row of a batch commits or none
// does. Open picks the driver for a DSN so one set of SQL serves both
// PostgreSQL and SQLite.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is what a repository needs from a connection. *sql.DB and *sql.Tx
// both satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside one transaction on db. The transaction commits when
// fn returns nil and rolls back when fn fails or panics; a panic is re-raised
// after the rollback. A failed commit is returned as the error.
//
// Bulk uploads record their rows this way:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//		for _, jar := range pending {
//			if _, err := repomanager.Jars(tx).Create(ctx, jar); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
