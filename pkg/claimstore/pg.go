package claimstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

// PGStore persists claims in the 'claims' table.
type PGStore struct {
	db bun.IDB
}

// NewPGStore creates a new postgres implementation of the claims store
func NewPGStore(db bun.IDB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Get(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, bool, error) {
	dao := new(ClaimDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("fingerprint = ?", []byte(fp)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get claim: %w", err)
	}
	return toClaim(dao), true, nil
}

func (s *PGStore) Contains(ctx context.Context, fp claim.Fingerprint) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*ClaimDao)(nil)).
		Where("fingerprint = ?", []byte(fp)).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check claim exists: %w", err)
	}
	return exists, nil
}

// Insert writes the claim, replacing owner and height of an existing row.
func (s *PGStore) Insert(ctx context.Context, c *claim.Claim) error {
	_, err := s.db.NewInsert().
		Model(toClaimDao(c)).
		On("CONFLICT (fingerprint) DO UPDATE").
		Set("owner = EXCLUDED.owner").
		Set("registered_at = EXCLUDED.registered_at").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

func (s *PGStore) Remove(ctx context.Context, fp claim.Fingerprint) error {
	_, err := s.db.NewDelete().
		Model((*ClaimDao)(nil)).
		Where("fingerprint = ?", []byte(fp)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove claim: %w", err)
	}
	return nil
}
