package statestore

import (
	"context"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "oauth:state:"

// RedisNonceStore tracks outstanding OAuth state nonces in Redis so each
// state token is consumed at most once. TTL expiry covers abandoned flows.
type RedisNonceStore struct {
	client *redis.Client
}

// NewRedisNonceStore creates a nonce store backed by the given client.
func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client}
}

var _ ports.NonceStore = (*RedisNonceStore)(nil)

// Save records the nonce for the given TTL.
func (s *RedisNonceStore) Save(ctx context.Context, nonce string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+nonce, "1", ttl).Err(); err != nil {
		return domain.PersistenceError(err, "failed to save state nonce")
	}
	return nil
}

// Consume removes the nonce and reports whether it was present.
func (s *RedisNonceStore) Consume(ctx context.Context, nonce string) (bool, error) {
	_, err := s.client.GetDel(ctx, keyPrefix+nonce).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, domain.PersistenceError(err, "failed to consume state nonce")
	}
	return true, nil
}
