// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avcastro/vaultbox/internal/dbx"
	"github.com/avcastro/vaultbox/internal/server/repositories/contacts"
	"github.com/avcastro/vaultbox/internal/server/repositories/files"
	"github.com/avcastro/vaultbox/internal/server/repositories/shares"
	"github.com/avcastro/vaultbox/internal/server/repositories/subscriptions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Files(db dbx.DBTX) files.Repository
	Shares(db dbx.DBTX) shares.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
