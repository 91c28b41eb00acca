package limiter

import "time"

// Option configures a RateLimiter at construction time.
type Option func(*RateLimiter)

// WithCachePrefix sets the namespace prepended to derived counter keys
// (default DefaultCachePrefix). Limiters with different prefixes never share
// a counter, even for the same unique key and spec.
func WithCachePrefix(prefix string) Option {
	return func(r *RateLimiter) {
		r.prefix = prefix
	}
}

// WithTimeout bounds the store round trips of a single Acquire call. Zero
// means no limiter-imposed deadline; the caller's context still applies.
func WithTimeout(d time.Duration) Option {
	return func(r *RateLimiter) {
		r.timeout = d
	}
}

// WithRecorder injects a custom metrics backend.
func WithRecorder(rec MetricsRecorder) Option {
	return func(r *RateLimiter) {
		r.recorder = rec
	}
}
