package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RequestLimiter throttles outbound upstream calls to a minimum inter-request
// interval. One limiter is shared by every upstream call in the process.
//
// rate.Limiter serializes its token accounting internally, so concurrent
// Acquire calls cannot both observe a stale last-request time.
type RequestLimiter struct {
	limiter *rate.Limiter
}

// NewRequestLimiter creates a limiter spacing requests at least minInterval
// apart. Burst is 1: the first call proceeds immediately, every later call
// blocks until its slot.
func NewRequestLimiter(minInterval time.Duration) *RequestLimiter {
	return &RequestLimiter{
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Acquire blocks until the caller may issue the next upstream request, or
// until ctx is done.
func (l *RequestLimiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
