package limiter

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// expireIfUnsetScript emulates `EXPIRE key seconds NX` on servers older than
// 7.0, which lack the NX flag. TTL < 0 covers both "no TTL" (-1) and "no such
// key" (-2); EXPIRE on a missing key is a no-op.
var expireIfUnsetScript = redis.NewScript(`
if redis.call("TTL", KEYS[1]) < 0 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return 0
`)

// RedisCounter implements Counter (and the pipelined WindowCounter fast path)
// on top of go-redis. All cross-process atomicity comes from Redis INCR and
// the NX-guarded EXPIRE.
//
// The TTL-guard strategy is chosen once at construction: servers 7.0 and
// newer get native EXPIRE NX pipelined with the increment; older servers get
// a Lua emulation and a separate guard round trip. There is no per-call
// version inspection.
type RedisCounter struct {
	client   *redis.Client
	expireNX bool
	forced   bool
}

var _ WindowCounter = (*RedisCounter)(nil)

// RedisCounterOption configures a RedisCounter at construction time.
type RedisCounterOption func(*RedisCounter)

// WithExpireNX forces the native EXPIRE NX strategy, skipping the server
// version probe. Useful against proxies or test servers whose INFO output is
// not authoritative.
func WithExpireNX() RedisCounterOption {
	return func(c *RedisCounter) {
		c.expireNX = true
		c.forced = true
	}
}

// WithLegacyExpire forces the Lua emulation used for servers older than 7.0.
func WithLegacyExpire() RedisCounterOption {
	return func(c *RedisCounter) {
		c.expireNX = false
		c.forced = true
	}
}

// NewRedisCounter verifies connectivity and picks the TTL-guard strategy.
// A failed or unparseable INFO reply counts as a modern server.
func NewRedisCounter(client *redis.Client, opts ...RedisCounterOption) (*RedisCounter, error) {
	c := &RedisCounter{client: client, expireNX: true}
	for _, opt := range opts {
		opt(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	if !c.forced {
		c.expireNX = supportsExpireNX(ctx, client)
	}
	return c, nil
}

// Incr implements Counter.
func (c *RedisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

// ExpireIfUnset implements Counter. It never touches a TTL that is already
// running.
func (c *RedisCounter) ExpireIfUnset(ctx context.Context, key string, ttl time.Duration) error {
	if c.expireNX {
		return c.client.ExpireNX(ctx, key, ttl).Err()
	}
	seconds := int(ttl / time.Second)
	return expireIfUnsetScript.Run(ctx, c.client, []string{key}, seconds).Err()
}

// IncrWindow implements WindowCounter. On modern servers the increment and
// the NX TTL guard travel in one pipeline, so a counter is never observable
// without its TTL between round trips. The guard is unconditional; NX makes
// it a no-op on every call after the one that created the window.
func (c *RedisCounter) IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if !c.expireNX {
		// Pre-7.0 servers cannot carry the guard inside the pipeline.
		// Fall back to increment-then-guard; the Lua TTL check keeps late
		// writers from resetting a running window.
		count, err := c.Incr(ctx, key)
		if err != nil {
			return 0, err
		}
		if count == 1 {
			if err := c.ExpireIfUnset(ctx, key, ttl); err != nil {
				return 0, err
			}
		}
		return count, nil
	}

	var incr *redis.IntCmd
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func supportsExpireNX(ctx context.Context, client *redis.Client) bool {
	info, err := client.Info(ctx, "server").Result()
	if err != nil {
		return true
	}
	major, ok := redisMajorVersion(info)
	return !ok || major >= 7
}

// redisMajorVersion extracts the major version from an INFO server reply.
func redisMajorVersion(info string) (int, bool) {
	for _, line := range strings.Split(info, "\n") {
		rest, found := strings.CutPrefix(strings.TrimSpace(line), "redis_version:")
		if !found {
			continue
		}
		head, _, _ := strings.Cut(rest, ".")
		major, err := strconv.Atoi(head)
		if err != nil {
			return 0, false
		}
		return major, true
	}
	return 0, false
}
