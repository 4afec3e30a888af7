package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Namespace prefixes every key this service writes.
const Namespace = "udyam"

// OpenRedis connects and pings within timeout; zero timeout means 5s.
func OpenRedis(ctx context.Context, addr string, db int, timeout time.Duration) (*redis.Client, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := redis.NewClient(&redis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: timeout,
	})
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// Key joins parts under Namespace, e.g. Key("otp", "rl", m) -> "udyam:otp:rl:m".
func Key(parts ...string) string {
	return Namespace + ":" + strings.Join(parts, ":")
}
