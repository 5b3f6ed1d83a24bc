package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "insight:cache:"
	redisIndexKey  = "insight:cache_index"
)

// RedisStore is the shared-deployment Store. Values expire via Redis TTL;
// a sorted set scored by insertion time drives oldest-first eviction.
type RedisStore struct {
	client *goredis.Client
	ttl    time.Duration
	max    int
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: TTL, max: MaxEntries}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return payload, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, payload []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+key, payload, s.ttl)
	pipe.ZAddNX(ctx, redisIndexKey, goredis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: key,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	size, err := s.client.ZCard(ctx, redisIndexKey).Result()
	if err != nil {
		return fmt.Errorf("cache index size: %w", err)
	}
	for size > int64(s.max) {
		oldest, err := s.client.ZPopMin(ctx, redisIndexKey, 1).Result()
		if err != nil || len(oldest) == 0 {
			break
		}
		member, _ := oldest[0].Member.(string)
		if member != "" {
			_ = s.client.Del(ctx, redisKeyPrefix+member).Err()
		}
		size--
	}
	return nil
}
