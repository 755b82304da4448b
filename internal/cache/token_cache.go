package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "auth:revoked:"

// TokenCache is a Redis deny-list of revoked token IDs. A nil *TokenCache
// is valid and behaves as an empty list, so the API runs without Redis.
type TokenCache struct {
	client *redis.Client
}

// NewTokenCache connects to the Redis URL and verifies the connection.
func NewTokenCache(redisURL, password string) (*TokenCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &TokenCache{client: rdb}, nil
}

func revokedKey(tokenID string) string {
	return revokedPrefix + tokenID
}

// Revoke stores the token ID until the token would have expired anyway.
func (c *TokenCache) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err()
}

// IsRevoked reports whether the token ID is on the deny-list.
func (c *TokenCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	err := c.client.Get(ctx, revokedKey(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *TokenCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
