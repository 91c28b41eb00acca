package limiter

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultCachePrefix namespaces counter keys in the shared store. The literal
// matches the default of the Python asyncio-redis-rate-limit client so that
// mixed-language processes protecting the same operation land on the same
// counter out of the box.
const DefaultCachePrefix = "aio-rate-limit"

// RateLimiter enforces one RateSpec for one protected operation. Create it
// once per operation (typically once per process) and reuse it; every
// instance carries a local mutex that serializes acquisitions from within one
// process.
//
// The mutex gives no cross-process guarantee. Cross-process correctness rests
// entirely on the store's atomic increment and the NX TTL guard.
type RateLimiter struct {
	uniqueKey string
	spec      RateSpec
	store     Counter
	fastStore WindowCounter // non-nil when store supports the pipelined path
	prefix    string
	timeout   time.Duration
	recorder  MetricsRecorder

	mu       sync.Mutex
	cacheKey string
}

// New constructs a RateLimiter for uniqueKey under spec, coordinating through
// store. The spec is validated before any store interaction.
func New(uniqueKey string, spec RateSpec, store Counter, opts ...Option) (*RateLimiter, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	r := &RateLimiter{
		uniqueKey: uniqueKey,
		spec:      spec,
		store:     store,
		prefix:    DefaultCachePrefix,
		recorder:  NoOpMetricsRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}

	// Capability detection happens once, here, not per call.
	if fast, ok := store.(WindowCounter); ok {
		r.fastStore = fast
	}
	r.cacheKey = deriveCacheKey(uniqueKey, spec, r.prefix)
	return r, nil
}

// CacheKey returns the derived store key this limiter coordinates through.
// It is a pure function of (unique key, spec, prefix) and stable across
// process restarts.
func (r *RateLimiter) CacheKey() string {
	return r.cacheKey
}

// Spec returns the policy this limiter enforces.
func (r *RateLimiter) Spec() RateSpec {
	return r.spec
}

// Acquire asks for permission to run the protected operation once.
//
// It returns nil when the call may proceed, a *RateLimitError when the
// current window is exhausted, and the store's error unmodified when the
// store could not be reached. Permission is only checked, never held: there
// is nothing to release.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	start := time.Now()
	tags := map[string]string{"key": r.uniqueKey}
	r.recorder.Add("ratelimit.call", 1, tags)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		count int64
		err   error
	)
	if r.fastStore != nil {
		count, err = r.fastStore.IncrWindow(ctx, r.cacheKey, r.spec.Window())
	} else {
		count, err = r.store.Incr(ctx, r.cacheKey)
		if err == nil && count == 1 {
			// Only the call that created the window arms its TTL. The
			// ExpireIfUnset contract still guards against a second writer
			// resetting a TTL that is already running.
			err = r.store.ExpireIfUnset(ctx, r.cacheKey, r.spec.Window())
		}
	}
	if err != nil {
		// A store failure is not a quota decision; propagate it unwrapped.
		r.recorder.Add("ratelimit.error", 1, tags)
		return err
	}

	r.recorder.Observe("ratelimit.latency", time.Since(start).Seconds(), tags)
	if count > int64(r.spec.Requests) {
		r.recorder.Add("ratelimit.denied", 1, tags)
		return &RateLimitError{Key: r.uniqueKey, Count: count, Limit: r.spec.Requests}
	}
	return nil
}

// Do runs fn only when a slot is available in the current window. The
// acquisition error is returned as-is when the slot is denied, and fn's error
// otherwise.
func (r *RateLimiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := r.Acquire(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

// deriveCacheKey computes the shared store key for the triple. It is pure,
// deterministic and salt-free: independent processes converge on the same key
// with no negotiation. The digest input and format are byte-compatible with
// the Python reference client.
func deriveCacheKey(uniqueKey string, spec RateSpec, prefix string) string {
	sum := md5.Sum([]byte(uniqueKey + spec.String()))
	return prefix + hex.EncodeToString(sum[:])
}
