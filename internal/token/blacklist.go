package token

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist records revoked refresh-token hashes. Writes must be visible to
// subsequent reads from any worker.
type Blacklist interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

const blacklistPrefix = "revoked_refresh:"

type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	return b.client.Set(ctx, blacklistPrefix+tokenHash, "1", ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	count, err := b.client.Exists(ctx, blacklistPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
