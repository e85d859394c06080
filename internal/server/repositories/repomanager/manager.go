package repomanager

import (
	"context"
	"database/sql"

	"github.com/tetherhq/tether/internal/dbx"
	"github.com/tetherhq/tether/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
