package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

// ChainStateDao is a data access object that maps directly to the 'chain_state' table in PostgreSQL.
type ChainStateDao struct {
	bun.BaseModel `bun:"table:chain_state"`
	ChainID       string    `bun:"chain_id,pk,type:varchar(100)"`
	LastHeight    int64     `bun:"last_height,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,nullzero,default:current_timestamp"`
}

// PGHeightStore keeps the height of one chain in the chain_state table.
type PGHeightStore struct {
	db      bun.IDB
	chainID string
}

// NewPGHeightStore creates a height store for chainID.
func NewPGHeightStore(db bun.IDB, chainID string) *PGHeightStore {
	return &PGHeightStore{db: db, chainID: chainID}
}

// Load returns the persisted height, or 0 if the chain has no state yet.
func (s *PGHeightStore) Load(ctx context.Context) (claim.Height, error) {
	dao := new(ChainStateDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("chain_id = ?", s.chainID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load chain state: %w", err)
	}
	return claim.Height(dao.LastHeight), nil
}

// Save upserts the height of the chain.
func (s *PGHeightStore) Save(ctx context.Context, h claim.Height) error {
	dao := &ChainStateDao{
		ChainID:    s.chainID,
		LastHeight: int64(h),
	}
	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (chain_id) DO UPDATE").
		Set("last_height = EXCLUDED.last_height").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save chain state: %w", err)
	}
	return nil
}
