package webapi

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps a client under a remote API's request quota.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows burst requests at once, then perSecond on average.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// NewHourlyRateLimiter allows n requests per rolling hour, all of them
// available up front. Postiz publishes its quota this way.
func NewHourlyRateLimiter(n int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(n)), n)}
}

// Allow waits for a token. It fails if ctx ends first or the wait would
// outlast ctx's deadline.
func (r *RateLimiter) Allow(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
