package client

import (
	"context"
	"time"
)

// RateLimiter spaces outbound LLM calls so hosted providers with
// per-minute quotas are not hammered. The first call passes
// immediately; later calls wait for the next tick.
type RateLimiter struct {
	ticker *time.Ticker
	tokens chan struct{}
	done   chan struct{}
}

// NewRateLimiter allows roughly requestsPerSecond calls per second.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	interval := time.Duration(float64(time.Second) / requestsPerSecond)

	rl := &RateLimiter{
		ticker: time.NewTicker(interval),
		tokens: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	rl.tokens <- struct{}{}

	go func() {
		for {
			select {
			case <-rl.ticker.C:
				select {
				case rl.tokens <- struct{}{}:
				default:
				}
			case <-rl.done:
				return
			}
		}
	}()

	return rl
}

// Wait blocks until the limiter allows the next request or the
// context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	select {
	case <-rl.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop releases the limiter's ticker goroutine.
func (rl *RateLimiter) Stop() {
	rl.ticker.Stop()
	close(rl.done)
}
