package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "blacklist:"

// RedisRevocationList looks revoked token ids up under blacklist:<jti>.
// Entries are written by whichever service issues and revokes tokens.
type RedisRevocationList struct {
	client *redis.Client
}

func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := l.client.Get(ctx, revocationKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis error checking revocation list: %w", err)
	}
	return true, nil
}
