// Package middleware attaches distributed rate limiting to net/http handlers.
//
// Each request is mapped to a protected-operation key by KeyFunc; limiters
// are minted per key through a limiter.Registry, so all middleware instances
// in a fleet sharing one Redis enforce one global budget per key.
package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ratelib/redis-rate-limit/pkg/limiter"
)

// Config defines the configuration for the rate limiter middleware.
type Config struct {
	// Limiters mints one RateLimiter per request key. Required.
	Limiters *limiter.Registry

	// Spec is the policy applied to every key this middleware sees.
	Spec limiter.RateSpec

	// KeyFunc computes the rate limit key from the request.
	// Common examples: IP address, user ID (from context), API key.
	// Default: r.RemoteAddr.
	KeyFunc func(r *http.Request) string

	// ErrorHandler handles store failures (e.g. Redis down). These are never
	// reported as quota exhaustion. Default: 500.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

	// DeniedHandler customizes the rejection response.
	// Default: 429 with a Retry-After header of the window length.
	DeniedHandler func(w http.ResponseWriter, r *http.Request, rle *limiter.RateLimitError)
}

// New creates a new HTTP middleware handler.
func New(cfg Config) func(http.Handler) http.Handler {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(r *http.Request) string {
			return r.RemoteAddr
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rl, err := cfg.Limiters.Get(cfg.KeyFunc(r), cfg.Spec)
			if err != nil {
				serveError(cfg, w, r, err)
				return
			}

			err = rl.Acquire(r.Context())
			var rle *limiter.RateLimitError
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.As(err, &rle):
				if cfg.DeniedHandler != nil {
					cfg.DeniedHandler(w, r, rle)
					return
				}
				w.Header().Set("Retry-After", strconv.Itoa(cfg.Spec.Seconds))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			default:
				// Store unreachable. Surfacing it as 429 would teach clients
				// to back off for an outage that is not their fault.
				serveError(cfg, w, r, err)
			}
		})
	}
}

func serveError(cfg Config, w http.ResponseWriter, r *http.Request, err error) {
	if cfg.ErrorHandler != nil {
		cfg.ErrorHandler(w, r, err)
		return
	}
	http.Error(w, "Rate Limit Internal Error", http.StatusInternalServerError)
}
