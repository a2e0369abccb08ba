package main

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CODESYNC_ADDR", "")
	t.Setenv("PORT", "")

	cfg := LoadConfig()

	if cfg.Addr != ":5000" {
		t.Errorf("got addr %q, want %q", cfg.Addr, ":5000")
	}
	if cfg.MaxConns != 1000 {
		t.Errorf("got max conns %d, want 1000", cfg.MaxConns)
	}
	if cfg.MaxMessageSize != 1048576 {
		t.Errorf("got max message size %d, want 1048576", cfg.MaxMessageSize)
	}
	if cfg.RateLimitBurst != 40 {
		t.Errorf("got rate limit burst %d, want 40", cfg.RateLimitBurst)
	}
}

func TestListenAddr_Precedence(t *testing.T) {
	t.Setenv("CODESYNC_ADDR", "")
	t.Setenv("PORT", "8080")
	if got := listenAddr(); got != ":8080" {
		t.Errorf("PORT fallback: got %q, want %q", got, ":8080")
	}

	t.Setenv("CODESYNC_ADDR", "127.0.0.1:9000")
	if got := listenAddr(); got != "127.0.0.1:9000" {
		t.Errorf("explicit addr: got %q, want %q", got, "127.0.0.1:9000")
	}
}
