package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jarvault/internal/dbx"
	"github.com/dmitrijs2005/jarvault/internal/server/repositories/jars"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Jars(db dbx.DBTX) jars.Repository
}
