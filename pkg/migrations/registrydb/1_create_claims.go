package registrydb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/claims-registry/pkg/claimstore"
	mghelper "github.com/chainsafe/claims-registry/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating claims table...")
		return mghelper.CreateSchema(ctx, db, &claimstore.ClaimDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping claims table...")
		return mghelper.DropTables(ctx, db, &claimstore.ClaimDao{})
	})
}
