// Package safety guards the service against overload
package safety

import (
	"sync"
	"time"
)

// RateLimiter implements token bucket rate limiting
type RateLimiter struct {
	capacity   float64   // Maximum number of tokens
	tokens     float64   // Current number of tokens
	refillRate float64   // Tokens added per second
	lastRefill time.Time // Last time tokens were added
	rejected   int64
	mutex      sync.Mutex
	name       string
	now        func() time.Time
}

// NewRateLimiter creates a limiter that starts full. A non-positive capacity
// or refill rate returns nil, and a nil limiter allows everything.
func NewRateLimiter(name string, capacity int, refillRate float64) *RateLimiter {
	if capacity <= 0 || refillRate <= 0 {
		return nil
	}
	return newRateLimiter(name, capacity, refillRate, time.Now)
}

func newRateLimiter(name string, capacity int, refillRate float64, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: now(),
		name:       name,
		now:        now,
	}
}

// Allow checks if an operation is allowed under the rate limit
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN checks if N operations are allowed under the rate limit
func (rl *RateLimiter) AllowN(n int) bool {
	if rl == nil {
		return true
	}
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()

	if rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return true
	}
	rl.rejected++
	return false
}

// RetryAfter returns how long until one token is available
func (rl *RateLimiter) RetryAfter() time.Duration {
	if rl == nil {
		return 0
	}
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()
	if rl.tokens >= 1 {
		return 0
	}
	missing := 1 - rl.tokens
	return time.Duration(missing / rl.refillRate * float64(time.Second))
}

// refillTokens adds tokens based on elapsed time
func (rl *RateLimiter) refillTokens() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill)
	if elapsed <= 0 {
		return
	}

	rl.tokens += elapsed.Seconds() * rl.refillRate
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
	rl.lastRefill = now
}

// GetStats returns current statistics about the rate limiter
func (rl *RateLimiter) GetStats() RateLimiterStats {
	if rl == nil {
		return RateLimiterStats{}
	}
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()

	return RateLimiterStats{
		Name:       rl.name,
		Capacity:   int(rl.capacity),
		Tokens:     rl.tokens,
		RefillRate: rl.refillRate,
		LastRefill: rl.lastRefill,
		Rejected:   rl.rejected,
	}
}

// RateLimiterStats holds statistics about a rate limiter
type RateLimiterStats struct {
	Name       string
	Capacity   int
	Tokens     float64
	RefillRate float64
	LastRefill time.Time
	Rejected   int64
}
