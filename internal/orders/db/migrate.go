package db

import (
	"context"

	"github.com/uptrace/bun"
)

// Migrate creates the orders table when no migrations directory is configured.
// Production deployments run the golang-migrate runner instead.
func Migrate(bunDB *bun.DB) error {
	_, err := bunDB.NewCreateTable().
		Model((*Order)(nil)).
		IfNotExists().
		Exec(context.Background())
	return err
}
