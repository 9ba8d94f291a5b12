package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ragkeeper/internal/dbx"
	"github.com/dmitrijs2005/ragkeeper/internal/server/repositories/users"
)

// Seed provisions accounts inside one transaction, so a failure leaves the
// users table as it was.
func Seed(ctx context.Context, db *sql.DB, m RepositoryManager, seed []users.SeedUser) (int, error) {
	var created int
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := users.Seed(ctx, m.Users(tx), seed)
		created = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
