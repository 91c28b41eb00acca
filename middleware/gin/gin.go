// Package middleware adapts the limiter to gin-gonic handlers.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ratelib/redis-rate-limit/pkg/limiter"
)

// RateLimiter returns a gin middleware enforcing spec per request key.
// Rejections answer 429 with rate-limit headers; store failures answer 500 so
// clients never mistake an outage for quota exhaustion.
func RateLimiter(limiters *limiter.Registry, spec limiter.RateSpec, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rl, err := limiters.Get(keyFunc(ctx), spec)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limiter error"})
			return
		}

		err = rl.Acquire(ctx.Request.Context())
		if limiter.IsRateLimited(err) {
			ctx.Header("X-RateLimit-Limit", strconv.Itoa(spec.Requests))
			ctx.Header("Retry-After", strconv.Itoa(spec.Seconds))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "too many requests, try again later",
			})
			return
		}
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limiter error"})
			return
		}

		ctx.Header("X-RateLimit-Limit", strconv.Itoa(spec.Requests))
		ctx.Next()
	}
}
