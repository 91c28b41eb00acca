package limiter

import "context"

// Wrap returns fn guarded by rl: each invocation first acquires a slot in the
// current window and fails with rl's error (and the zero value of T) when the
// slot is denied. The wrapped function itself is never invoked on denial.
func Wrap[T any](rl *RateLimiter, fn func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		if err := rl.Acquire(ctx); err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx)
	}
}

// WrapFunc is Wrap for functions that return only an error.
func WrapFunc(rl *RateLimiter, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return rl.Do(ctx, fn)
	}
}
