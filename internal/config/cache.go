package config

import "time"

// CacheConfig defines settings for the response cache middleware used on the
// public listing endpoints.  Only GET responses are cached; the key is built
// from the route path and query string.  When Enabled is false or no Redis
// client is configured, caching is disabled.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int // responses larger than this are never cached
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envOr("CACHE_ENABLED", "true") == "true",
        TTL:          envOrDur("CACHE_TTL", 30*time.Second),
        Prefix:       envOr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envOrInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}
