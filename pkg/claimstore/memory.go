package claimstore

import (
	"context"
	"sync"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

// MemoryStore keeps claims in a map keyed by the raw fingerprint bytes.
// Entries are copied on the way in and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu     sync.RWMutex
	claims map[string]*claim.Claim
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{claims: make(map[string]*claim.Claim)}
}

func (s *MemoryStore) Get(_ context.Context, fp claim.Fingerprint) (*claim.Claim, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[fp.Key()]
	if !ok {
		return nil, false, nil
	}
	return cloneClaim(c), true, nil
}

func (s *MemoryStore) Contains(_ context.Context, fp claim.Fingerprint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.claims[fp.Key()]
	return ok, nil
}

func (s *MemoryStore) Insert(_ context.Context, c *claim.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[c.Fingerprint.Key()] = cloneClaim(c)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, fp claim.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, fp.Key())
	return nil
}

// Len returns the number of live claims.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.claims)
}
