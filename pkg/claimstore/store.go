// Package claimstore provides the Store implementations backing the claims registry:
// an in-process map, PostgreSQL through bun, and Redis.
package claimstore

import (
	"github.com/chainsafe/claims-registry/pkg/claim"
	"github.com/chainsafe/claims-registry/pkg/claim/registry"
)

var (
	_ registry.Store = (*MemoryStore)(nil)
	_ registry.Store = (*PGStore)(nil)
	_ registry.Store = (*RedisStore)(nil)
)

func cloneClaim(c *claim.Claim) *claim.Claim {
	return &claim.Claim{
		Fingerprint:  append(claim.Fingerprint(nil), c.Fingerprint...),
		Owner:        c.Owner,
		RegisteredAt: c.RegisteredAt,
	}
}
