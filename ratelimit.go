package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterSweepPeriod = 5 * time.Minute
	limiterIdleExpiry  = 10 * time.Minute
)

// RateLimiter caps WebSocket handshakes per source IP. Session traffic is
// not limited here; only connection churn is.
type RateLimiter struct {
	mu    sync.Mutex
	perIP map[string]*limiterEntry
	rps   float64
	burst int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		perIP: make(map[string]*limiterEntry),
		rps:   rps,
		burst: burst,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, ok := rl.perIP[ip]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(rl.rps), rl.burst),
		}
		rl.perIP[ip] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// cleanup drops limiters for IPs that have gone quiet so the map does not
// grow without bound.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(limiterSweepPeriod)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-limiterIdleExpiry)
		for ip, entry := range rl.perIP {
			if entry.lastSeen.Before(cutoff) {
				delete(rl.perIP, ip)
			}
		}
		rl.mu.Unlock()
	}
}
