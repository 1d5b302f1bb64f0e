package registrydb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/claims-registry/pkg/claimstore"
	mghelper "github.com/chainsafe/claims-registry/pkg/pgutil/migrations"
)

// registered_at supports operator queries over recently claimed fingerprints.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating claims registered_at index...")
		return mghelper.CreateModelIndexes(ctx, db, &claimstore.ClaimDao{}, "registered_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping claims registered_at index...")
		return mghelper.DropModelIndexes(ctx, db, &claimstore.ClaimDao{}, "registered_at")
	})
}
