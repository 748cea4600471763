package config

import "time"

// RateLimitConfig controls the fixed-window request limiter.  ReadLimit
// applies to GET endpoints, WriteLimit to mutations, both counted per
// user and route within Window.
type RateLimitConfig struct {
	Enabled    bool
	ReadLimit  int
	WriteLimit int
	Window     time.Duration
	Prefix     string
}

// LoadRateLimitConfig reads environment variables to build a RateLimitConfig.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:    getenv("RATE_LIMIT_ENABLED", "true") == "true",
		ReadLimit:  atoi(getenv("RATE_LIMIT_READS", "60")),
		WriteLimit: atoi(getenv("RATE_LIMIT_WRITES", "30")),
		Window:     parseDur(getenv("RATE_LIMIT_WINDOW", "1m")),
		Prefix:     getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.ReadLimit < 1 {
		cfg.ReadLimit = 1
	}
	if cfg.WriteLimit < 1 {
		cfg.WriteLimit = 1
	}
	// The limiter buckets time in whole seconds; anything finer would
	// truncate to a zero-length window.
	if cfg.Window < time.Second {
		cfg.Window = time.Minute
	}
	return cfg
}
