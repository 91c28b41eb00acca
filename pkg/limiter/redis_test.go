package limiter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCounter(t *testing.T, opts ...RedisCounterOption) (*RedisCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c, err := NewRedisCounter(client, opts...)
	if err != nil {
		t.Fatalf("NewRedisCounter: %v", err)
	}
	return c, mr
}

func TestRedisCounter_Incr(t *testing.T) {
	c, _ := newTestCounter(t, WithExpireNX())
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.Incr(ctx, "counter")
		if err != nil {
			t.Fatalf("Incr: %v", err)
		}
		if got != want {
			t.Errorf("Incr() = %d, want %d", got, want)
		}
	}
}

func TestRedisCounter_ExpireIfUnset(t *testing.T) {
	strategies := []struct {
		name string
		opt  RedisCounterOption
	}{
		{"ExpireNX", WithExpireNX()},
		{"LegacyLua", WithLegacyExpire()},
	}

	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			c, mr := newTestCounter(t, s.opt)
			ctx := context.Background()

			if _, err := c.Incr(ctx, "counter"); err != nil {
				t.Fatalf("Incr: %v", err)
			}
			if err := c.ExpireIfUnset(ctx, "counter", 2*time.Second); err != nil {
				t.Fatalf("ExpireIfUnset: %v", err)
			}
			if got := mr.TTL("counter"); got != 2*time.Second {
				t.Fatalf("TTL = %v, want 2s", got)
			}

			// A second writer must not reset or extend the running TTL.
			if err := c.ExpireIfUnset(ctx, "counter", 30*time.Second); err != nil {
				t.Fatalf("ExpireIfUnset: %v", err)
			}
			if got := mr.TTL("counter"); got != 2*time.Second {
				t.Errorf("TTL reset to %v by a second writer, want 2s", got)
			}
		})
	}
}

func TestRedisCounter_IncrWindow(t *testing.T) {
	strategies := []struct {
		name string
		opt  RedisCounterOption
	}{
		{"ExpireNX", WithExpireNX()},
		{"LegacyLua", WithLegacyExpire()},
	}

	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			c, mr := newTestCounter(t, s.opt)
			ctx := context.Background()

			got, err := c.IncrWindow(ctx, "counter", 10*time.Second)
			if err != nil {
				t.Fatalf("IncrWindow: %v", err)
			}
			if got != 1 {
				t.Errorf("first IncrWindow = %d, want 1", got)
			}
			if ttl := mr.TTL("counter"); ttl != 10*time.Second {
				t.Fatalf("TTL = %v, want 10s", ttl)
			}

			// Later increments keep counting without touching the TTL.
			mr.FastForward(3 * time.Second)
			got, err = c.IncrWindow(ctx, "counter", 10*time.Second)
			if err != nil {
				t.Fatalf("IncrWindow: %v", err)
			}
			if got != 2 {
				t.Errorf("second IncrWindow = %d, want 2", got)
			}
			if ttl := mr.TTL("counter"); ttl != 7*time.Second {
				t.Errorf("TTL = %v, want 7s (not re-armed)", ttl)
			}
		})
	}
}

func TestRedisMajorVersion(t *testing.T) {
	cases := []struct {
		name  string
		info  string
		major int
		ok    bool
	}{
		{"Modern", "# Server\r\nredis_version:7.2.4\r\nredis_mode:standalone\r\n", 7, true},
		{"Legacy", "# Server\r\nredis_version:6.2.14\r\n", 6, true},
		{"Missing", "# Server\r\nredis_mode:standalone\r\n", 0, false},
		{"Garbage", "redis_version:not-a-number\r\n", 0, false},
		{"Empty", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			major, ok := redisMajorVersion(tc.info)
			if major != tc.major || ok != tc.ok {
				t.Errorf("redisMajorVersion() = (%d, %v), want (%d, %v)", major, ok, tc.major, tc.ok)
			}
		})
	}
}

// TestRedisCounter_Integration runs the acquire protocol against a real Redis
// when one is reachable, covering the auto-detected strategy end to end.
func TestRedisCounter_Integration(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test: Redis not available (%v)", err)
	}

	store, err := NewRedisCounter(client)
	if err != nil {
		t.Fatalf("NewRedisCounter: %v", err)
	}

	key := fmt.Sprintf("it_%d", time.Now().UnixNano())
	rl, err := New(key, RateSpec{Requests: 2, Seconds: 1}, store, WithCachePrefix("it:"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Del(ctx, rl.CacheKey())

	// Two independent instances share the budget through the store.
	other, err := New(key, RateSpec{Requests: 2, Seconds: 1}, store, WithCachePrefix("it:"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := rl.Acquire(ctx); err != nil {
		t.Fatalf("first acquisition denied: %v", err)
	}
	if err := other.Acquire(ctx); err != nil {
		t.Fatalf("second acquisition denied: %v", err)
	}
	if err := rl.Acquire(ctx); !IsRateLimited(err) {
		t.Errorf("third acquisition should be rejected, got %v", err)
	}
}
