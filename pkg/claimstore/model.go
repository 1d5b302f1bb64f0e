package claimstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

// ClaimDao is a data access object that maps directly to the 'claims' table in PostgreSQL.
type ClaimDao struct {
	bun.BaseModel `bun:"table:claims,alias:c"`
	Fingerprint   []byte    `bun:"fingerprint,pk,type:bytea"`
	Owner         string    `bun:"owner,notnull,type:varchar(255)"`
	RegisteredAt  int64     `bun:"registered_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,nullzero,default:current_timestamp"`
}

func toClaimDao(c *claim.Claim) *ClaimDao {
	return &ClaimDao{
		Fingerprint:  []byte(c.Fingerprint),
		Owner:        string(c.Owner),
		RegisteredAt: int64(c.RegisteredAt),
	}
}

func toClaim(dao *ClaimDao) *claim.Claim {
	return &claim.Claim{
		Fingerprint:  claim.Fingerprint(dao.Fingerprint),
		Owner:        claim.AccountID(dao.Owner),
		RegisteredAt: claim.Height(dao.RegisteredAt),
	}
}
