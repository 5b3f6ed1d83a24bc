package quota

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// reserveScript does the check-then-increment atomically server-side so
// multiple backend instances share one budget. The counter key carries the
// window as its TTL; the count is never decremented, only expired.
var reserveScript = goredis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
if count >= tonumber(ARGV[1]) then
  return {0, redis.call('PTTL', KEYS[1])}
end
count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {1, 0}
`)

// RedisStore is the shared-deployment Store.
type RedisStore struct {
	client *goredis.Client
	key    string
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client, key: "quota:ai_calls"}
}

func (s *RedisStore) Reserve(ctx context.Context, limit int, window time.Duration) (time.Duration, bool, error) {
	res, err := reserveScript.Run(ctx, s.client, []string{s.key}, limit, window.Milliseconds()).Result()
	if err != nil {
		return 0, false, fmt.Errorf("quota script: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return 0, false, fmt.Errorf("quota script: unexpected reply %v", res)
	}
	allowed, _ := vals[0].(int64)
	if allowed == 1 {
		return 0, true, nil
	}

	pttl, _ := vals[1].(int64)
	if pttl < 0 {
		pttl = window.Milliseconds()
	}
	return time.Duration(pttl) * time.Millisecond, false, nil
}
