// Package limiter provides distributed fixed-window rate limiting backed by a
// shared Redis counter.
//
// The primary entry point is RateLimiter.Acquire:
//
//	err := rl.Acquire(ctx)
//
// Acquire returns nil when the call may proceed, a *RateLimitError carrying
// the observed count when the window is exhausted, and any store error
// unmodified when Redis could not be reached.
//
// # Overview
//
// This package implements a fixed-window counter:
//
//   - Each protected operation maps to one counter key in the store.
//   - The first acquisition in a window creates the counter and arms a TTL
//     equal to the window length.
//   - Every acquisition increments the counter; the call is rejected when the
//     post-increment value exceeds the configured limit.
//   - The window resets implicitly when the key expires. There is no explicit
//     reset logic anywhere.
//
// Fixed windows are simple and cheap (one round trip per acquisition) but do
// not smooth across window boundaries: a burst of up to 2N requests can land
// around a boundary (N at the end of one window, N at the start of the next).
// That is an accepted property of the algorithm, not a defect. If you need
// boundary smoothing, you want a sliding-window or token-bucket limiter, which
// this package deliberately is not.
//
// # Core Types
//
// RateSpec defines the policy: at most Requests invocations per Seconds-second
// window. Two equal RateSpec values always derive the same counter key.
//
// RateLimiter binds one unique key (the name of the protected operation), one
// RateSpec, one Counter and one cache prefix. Create it once per protected
// operation and reuse it for every invocation; Registry automates that.
//
// Counter is the narrow store capability the limiter needs: an atomic
// increment and a TTL set that applies only when no TTL exists yet. The
// optional WindowCounter fast path folds both into a single round trip.
//
// # Backends
//
//   - RedisCounter: the production backend. Safe across any number of
//     processes because all cross-process coordination rests on Redis INCR
//     atomicity and the NX TTL guard.
//   - MemoryCounter: a process-local stand-in with the same semantics, useful
//     for unit tests and single-instance deployments. It enforces nothing
//     across replicas.
//
// # Distributed Coordination
//
// The derived counter key is the only shared state. It is a deterministic,
// salt-free digest of (unique key, RateSpec, prefix), so independent processes
// protecting the same operation converge on the same key with no negotiation.
// The digest and its input encoding are byte-compatible with the Python
// asyncio-redis-rate-limit client, so mixed-language fleets sharing one Redis
// share one budget.
//
// Each RateLimiter also holds a local mutex that serializes acquisitions from
// within one process. The mutex removes redundant concurrent round trips from
// a single process; it provides no cross-process exclusivity whatsoever. All
// cross-process correctness is delegated to the store.
//
// # Context and Error Policy
//
// Acquire accepts a context.Context and passes it through to the store, so
// callers can enforce deadlines and cancel work. A store failure is returned
// as-is and is never converted into a rate-limit rejection: callers can always
// distinguish "over quota, try later" from "store unreachable". The limiter
// performs no retries; retry and backoff policy belongs to the caller.
//
// A rejected acquisition never blocks or corrupts the limiter. The very next
// call is evaluated independently.
//
// # Configuration
//
// RateLimiter is configured using the Functional Options pattern:
//
//	rl, err := limiter.New("reports.export", spec, store,
//		limiter.WithCachePrefix("myapp:"),
//		limiter.WithTimeout(100*time.Millisecond),
//		limiter.WithRecorder(myMetrics),
//	)
//
// Supported options:
//
//   - WithCachePrefix(string): namespace for counter keys (default
//     "aio-rate-limit").
//   - WithTimeout(time.Duration): per-acquire deadline for store round trips.
//   - WithRecorder(MetricsRecorder): injects a custom metrics backend.
package limiter
