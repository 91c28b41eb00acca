package limiter

import (
	"context"
	"fmt"
	"time"
)

// RateSpec is the policy "at most Requests invocations per Seconds-second
// window". The zero value is invalid; both fields must be positive.
type RateSpec struct {
	Requests int
	Seconds  int
}

// Validate reports whether the spec describes a usable policy.
func (s RateSpec) Validate() error {
	if s.Requests <= 0 {
		return fmt.Errorf("limiter: requests must be positive, got %d", s.Requests)
	}
	if s.Seconds <= 0 {
		return fmt.Errorf("limiter: seconds must be positive, got %d", s.Seconds)
	}
	return nil
}

// String returns the canonical form of the spec. This exact byte sequence is
// part of the cache-key derivation input shared with the Python reference
// client, so it must never change.
func (s RateSpec) String() string {
	return fmt.Sprintf("RateSpec(requests=%d, seconds=%d)", s.Requests, s.Seconds)
}

// Window returns the TTL armed on a freshly created counter.
func (s RateSpec) Window() time.Duration {
	return time.Duration(s.Seconds) * time.Second
}

// Counter is the store capability boundary. The limiter depends on exactly
// these two operations; everything about connections, pooling and retries is
// the implementation's concern.
type Counter interface {
	// Incr atomically increments the integer at key and returns the
	// post-increment value, creating the key at 1 when absent.
	Incr(ctx context.Context, key string) (int64, error)

	// ExpireIfUnset arms ttl on key only if the key has no TTL yet. It must
	// never extend, reset or shorten a TTL that is already running.
	ExpireIfUnset(ctx context.Context, key string, ttl time.Duration) error
}

// WindowCounter is an optional fast path: increment the counter and arm the
// guarded TTL in a single round trip. Backends that can pipeline both
// operations should implement it; the limiter detects support once at
// construction time.
type WindowCounter interface {
	Counter

	// IncrWindow behaves like Incr followed by ExpireIfUnset, issued as one
	// unit so a counter is never observable without its TTL between round
	// trips.
	IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
