package main

import (
	"os"
	"strconv"
)

type Config struct {
	Addr           string
	TLSCert        string
	TLSKey         string
	MaxConns       int
	MaxMessageSize int64
	RateLimitPerIP float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	return &Config{
		Addr:           listenAddr(),
		TLSCert:        envStr("CODESYNC_TLS_CERT", ""),
		TLSKey:         envStr("CODESYNC_TLS_KEY", ""),
		MaxConns:       envInt("CODESYNC_MAX_CONNS", 1000),
		MaxMessageSize: int64(envInt("CODESYNC_MAX_MESSAGE_SIZE", 1048576)),
		RateLimitPerIP: float64(envInt("CODESYNC_RATE_LIMIT_PER_IP", 20)),
		RateLimitBurst: envInt("CODESYNC_RATE_LIMIT_BURST", 40),
	}
}

// listenAddr resolves the bind address. PORT is honored for PaaS deploys
// that inject only a port number; the historical default is 5000.
func listenAddr() string {
	if addr := os.Getenv("CODESYNC_ADDR"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":5000"
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
