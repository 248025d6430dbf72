package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/grillazz/stuff-and-nonsense/internal/pkg/redis"
)

// Payload is what gets stored against an issued token. Expiry is a unix
// timestamp with fractional seconds; the store TTL is the sole authority
// for expiry, the field is informational.
type Payload struct {
	Email    string  `json:"email"`
	Expiry   float64 `json:"expiry"`
	Platform string  `json:"platform"`
}

// Store keeps issued tokens alive for their TTL. Get returns ok=false for
// unknown or expired tokens.
type Store interface {
	Put(ctx context.Context, token string, payload Payload, ttl time.Duration) error
	Get(ctx context.Context, token string) (Payload, bool, error)
}

// RedisStore backs Store with Redis key TTLs.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Put(ctx context.Context, token string, payload Payload, ttl time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, token, raw, ttl)
}

func (s *RedisStore) Get(ctx context.Context, token string) (Payload, bool, error) {
	raw, err := s.rdb.Get(ctx, token)
	if err != nil {
		return Payload{}, false, err
	}
	if raw == "" {
		return Payload{}, false, nil
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, false, err
	}
	return p, true, nil
}
