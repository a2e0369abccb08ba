package main

import (
	"testing"
)

func TestRateLimiter_AllowPerIP(t *testing.T) {
	rl := NewRateLimiter(10, 20)

	if !rl.Allow("1.2.3.4") {
		t.Error("first handshake should be allowed")
	}

	// Each IP gets its own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("a different IP should be allowed")
	}
}

func TestRateLimiter_BurstExhaustion(t *testing.T) {
	rl := NewRateLimiter(5, 10)

	ip := "10.0.0.1"
	allowed := 0
	for i := 0; i < 20; i++ {
		if rl.Allow(ip) {
			allowed++
		}
	}

	if allowed < 5 {
		t.Errorf("expected at least 5 allowed within the burst, got %d", allowed)
	}
	if allowed >= 20 {
		t.Error("sustained handshake churn should hit the limit")
	}
}

func TestRateLimiter_ConfiguredBurst(t *testing.T) {
	// The burst is an independent knob, not derived from the rate: a tiny
	// burst caps back-to-back handshakes even under a generous rate.
	rl := NewRateLimiter(1, 3)

	ip := "10.0.0.2"
	allowed := 0
	for i := 0; i < 10; i++ {
		if rl.Allow(ip) {
			allowed++
		}
	}

	if allowed < 3 || allowed > 4 {
		t.Errorf("expected the burst of 3 to bound immediate handshakes, got %d", allowed)
	}
}
