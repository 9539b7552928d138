package budget

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// Unlimited allows every retry.
type Unlimited struct{}

func (Unlimited) AllowRetry(context.Context, string, int) Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

// RateLimited allows retries at a sustained rate with a burst allowance.
// The check is non-blocking: a retry that would have to wait for a token is
// denied outright rather than delayed.
type RateLimited struct {
	limiter *rate.Limiter
}

// NewRateLimited builds a RateLimited budget refilling perSecond tokens per
// second with the given burst capacity. Non-finite or negative rates are
// treated as zero, which denies every retry once the burst is spent.
func NewRateLimited(perSecond float64, burst int) *RateLimited {
	if math.IsNaN(perSecond) || perSecond < 0 {
		perSecond = 0
	}
	if burst < 0 {
		burst = 0
	}
	return &RateLimited{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (b *RateLimited) AllowRetry(context.Context, string, int) Decision {
	if b == nil || b.limiter == nil {
		return Decision{Allowed: false, Reason: ReasonNil}
	}
	if b.limiter.Allow() {
		return Decision{Allowed: true, Reason: ReasonAllowed}
	}
	return Decision{Allowed: false, Reason: ReasonDenied}
}
