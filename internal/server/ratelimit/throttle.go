// Package ratelimit throttles authentication attempts per username to slow
// online brute forcing. Backed by ulule/limiter with its in-memory store;
// single-node deployments need nothing shared.
package ratelimit

import (
	"context"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

type Throttle struct {
	limiter *limiter.Limiter
}

// NewThrottle allows limit attempts per username within each period
// (fixed window). Successful logins count against the window too.
func NewThrottle(limit int64, period time.Duration) *Throttle {
	rate := limiter.Rate{Period: period, Limit: limit}
	return &Throttle{limiter: limiter.New(memory.NewStore(), rate)}
}

// Allow records one attempt for username and reports whether it is within
// the limit.
func (t *Throttle) Allow(ctx context.Context, username string) (bool, error) {
	c, err := t.limiter.Get(ctx, username)
	if err != nil {
		return false, err
	}
	return !c.Reached, nil
}
