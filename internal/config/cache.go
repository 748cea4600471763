package config

import (
	"os"
	"strconv"
	"time"
)

// CacheConfig defines settings for the response cache.  When Enabled is
// false or no Redis client is configured, caching is disabled and every
// read computes fresh.  TTL defines the lifetime of cache entries; there
// is no sliding expiration.  MaxBodyBytes caps the size of responses
// worth storing.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.  The 60 second TTL is
// deliberately short: write paths over-invalidate whole namespaces, so a
// short TTL bounds how long a missed invalidation can serve stale data.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenv("CACHE_ENABLED", "true") == "true",
		TTL:          parseDur(getenv("CACHE_TTL", "60s")),
		MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

// Helper functions shared with redis.go and ratelimit.go.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
