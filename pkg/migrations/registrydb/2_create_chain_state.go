package registrydb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/claims-registry/pkg/ledger"
	mghelper "github.com/chainsafe/claims-registry/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating chain_state table...")
		return mghelper.CreateSchema(ctx, db, &ledger.ChainStateDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping chain_state table...")
		return mghelper.DropTables(ctx, db, &ledger.ChainStateDao{})
	})
}
