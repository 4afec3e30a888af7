package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"udyam-verification/internal/infrastructure/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow trims the sorted set, then adds the member only while under the limit.
// KEYS[1] set, ARGV: now ms, window ms, limit, member.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
local current = redis.call("ZCARD", key)
if current >= limit then
	return 0
end
redis.call("ZADD", key, now, ARGV[4])
redis.call("PEXPIRE", key, window)
return 1
`)

// Redis is a sliding-window limiter shared by every replica using the same redis.
type Redis struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedis(rdb *redis.Client, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

func (r *Redis) key(k string) string { return cache.Key("ratelimit", r.prefix, k) }

func (r *Redis) Allow(ctx context.Context, key string, now time.Time) (bool, error) {
	nowMs := now.UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()
	res, err := slidingWindow.Run(ctx, r.rdb, []string{r.key(key)},
		nowMs, r.window.Milliseconds(), r.limit, member).Int()
	if err != nil {
		return false, fmt.Errorf("ratelimit: %w", err)
	}
	return res == 1, nil
}
