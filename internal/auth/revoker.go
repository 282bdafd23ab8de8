package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out session ids until they would have expired.
type Revoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// NopRevoker keeps nothing; logout then only clears the cookie.
type NopRevoker struct{}

func (NopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }
func (NopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type RedisRevoker struct {
	client *redis.Client
	prefix string
}

func NewRedisRevoker(client *redis.Client, prefix string) *RedisRevoker {
	if prefix == "" {
		prefix = "session:revoked:"
	}
	return &RedisRevoker{client: client, prefix: prefix}
}

func (r *RedisRevoker) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+sessionID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
