package claimstore

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

const (
	defaultRedisKeyPrefix = "claims:"

	fieldOwner        = "owner"
	fieldRegisteredAt = "registered_at"
)

// RedisStore keeps one hash per claim, keyed by the hex encoded fingerprint.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces the claim keys, e.g. per chain.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed claims store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: defaultRedisKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) key(fp claim.Fingerprint) string {
	return s.prefix + hex.EncodeToString(fp)
}

func (s *RedisStore) Get(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key(fp)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get claim: %w", err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	height, err := strconv.ParseUint(fields[fieldRegisteredAt], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt registered_at for %s: %w", fp, err)
	}
	return &claim.Claim{
		Fingerprint:  append(claim.Fingerprint(nil), fp...),
		Owner:        claim.AccountID(fields[fieldOwner]),
		RegisteredAt: claim.Height(height),
	}, true, nil
}

func (s *RedisStore) Contains(ctx context.Context, fp claim.Fingerprint) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(fp)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check claim exists: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) Insert(ctx context.Context, c *claim.Claim) error {
	err := s.client.HSet(ctx, s.key(c.Fingerprint),
		fieldOwner, string(c.Owner),
		fieldRegisteredAt, strconv.FormatUint(uint64(c.RegisteredAt), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, fp claim.Fingerprint) error {
	if err := s.client.Del(ctx, s.key(fp)).Err(); err != nil {
		return fmt.Errorf("failed to remove claim: %w", err)
	}
	return nil
}
