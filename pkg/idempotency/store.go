package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const placeholder = "pending"

// Store tracks client-supplied idempotency tokens for order creation.
// Begin claims a token with SETNX; Complete records the order id created
// under it so duplicate submissions can point at the original order.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(token string) string {
	return "idem:order:" + token
}

// Begin returns true when the token has not been seen before.
func (s *Store) Begin(ctx context.Context, token string) (bool, error) {
	return s.rdb.SetNX(ctx, key(token), placeholder, s.ttl).Result()
}

// Complete binds the token to the created order id, keeping the claim's TTL.
func (s *Store) Complete(ctx context.Context, token, orderID string) error {
	return s.rdb.Set(ctx, key(token), orderID, redis.KeepTTL).Err()
}

// Release frees a claimed token after a failed creation so the client can
// safely retry with the same token.
func (s *Store) Release(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, key(token)).Err()
}

// Lookup returns the order id recorded for a token, or "" when the original
// request is still in flight.
func (s *Store) Lookup(ctx context.Context, token string) (string, error) {
	v, err := s.rdb.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if v == placeholder {
		return "", nil
	}
	return v, nil
}
