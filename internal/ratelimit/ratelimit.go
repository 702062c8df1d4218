package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
	}
}

func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	l, ok := rl.buckets[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.buckets[ip] = l
	}
	rl.mu.Unlock()
	return l.Allow()
}
