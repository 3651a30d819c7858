package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Identity is the authenticated purchaser attached to a session. Sessions
// are issued elsewhere; this package only consumes them.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Get resolves a session token to its identity. The second return is false
// when the token is unknown or expired.
func (s *Store) Get(ctx context.Context, token string) (Identity, bool, error) {
	v, err := s.rdb.Get(ctx, "session:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}

	var id Identity
	if err := json.Unmarshal([]byte(v), &id); err != nil {
		return Identity{}, false, err
	}
	// Sliding expiry: an active session stays alive.
	_ = s.rdb.Expire(ctx, "session:"+token, s.ttl).Err()
	return id, true, nil
}

type ctxKey struct{}

// FromContext returns the session identity placed by Middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// NewContext attaches a resolved session identity to ctx.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}
