package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "optimizer:"

// RedisResultCache stores serialised optimisation results in Redis with a
// fixed TTL.
type RedisResultCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{Client: client, TTL: ttl}
}

// Key fingerprints a canonical request payload for one operation.
// Equal payloads always map to equal keys.
func Key(operation string, payload []byte) string {
	return keyPrefix + operation + ":" + strconv.FormatUint(xxhash.Sum64(payload), 16)
}

func (c *RedisResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.Client == nil {
		return nil, false, errors.New("result cache: client is nil")
	}

	b, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get result cache key=%q: %w", key, err)
	}
	return b, true, nil
}

func (c *RedisResultCache) Put(ctx context.Context, key string, value []byte) error {
	if c.Client == nil {
		return errors.New("result cache: client is nil")
	}

	if err := c.Client.Set(ctx, key, value, c.TTL).Err(); err != nil {
		return fmt.Errorf("put result cache key=%q: %w", key, err)
	}
	return nil
}
