package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type RateLimiter interface {
	Wait(ctx context.Context) error
}

// PolitenessLimiter spaces out page requests with a jittered delay so the
// crawl looks like a person paging through results. Serial requests plus
// this delay are the whole anti-hammering story, there is no concurrency.
type PolitenessLimiter struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
	mu         sync.Mutex
}

func NewPolitenessLimiter(minDelay, maxDelay time.Duration) *PolitenessLimiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &PolitenessLimiter{
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Wait blocks until enough time has passed since the previous action, or
// until the context is cancelled.
func (r *PolitenessLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.lastAction)
	delay := r.calculateDelay()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	r.lastAction = time.Now()
	return nil
}

func (r *PolitenessLimiter) calculateDelay() time.Duration {
	if r.minDelay == r.maxDelay {
		return r.minDelay
	}
	jitter := time.Duration(rand.Int63n(int64(r.maxDelay - r.minDelay)))
	return r.minDelay + jitter
}

// None is a no-delay limiter for tests.
type None struct{}

func (None) Wait(ctx context.Context) error {
	return ctx.Err()
}
