package limiter

import (
	"errors"
	"fmt"
)

// RateLimitError reports that the current window's counter exceeded the
// configured limit. Count is the post-increment value observed by the
// rejected call, so the first rejection under RateSpec{Requests: n} carries
// n+1.
//
// A RateLimitError never disables the limiter; the next acquisition is
// evaluated independently.
type RateLimitError struct {
	Key   string
	Count int64
	Limit int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("limiter: rate limit hit for %q: %d of %d", e.Key, e.Count, e.Limit)
}

// IsRateLimited reports whether err is (or wraps) a rate-limit rejection, as
// opposed to a store or configuration failure.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
