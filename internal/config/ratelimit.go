package config

import "time"

// RateLimitConfig controls the fixed-window limiter applied to the auth
// endpoints.  Limit requests are admitted per Window per client key; the
// middleware is a no-op when Enabled is false or Redis is unavailable.
type RateLimitConfig struct {
    Enabled bool
    Limit   int
    Window  time.Duration
    Prefix  string // Redis key namespace
}

// LoadRateLimitConfig reads limiter settings from the environment, with
// conservative defaults sized for credential endpoints.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled: envOr("RATE_LIMIT_ENABLED", "true") == "true",
        Limit:   envOrInt("RATE_LIMIT_REQUESTS", 20),
        Window:  envOrDur("RATE_LIMIT_WINDOW", time.Minute),
        Prefix:  envOr("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Limit < 1 {
        cfg.Limit = 1
    }
    if cfg.Window <= 0 {
        cfg.Window = time.Minute
    }
    return cfg
}

func envOrDur(key string, def time.Duration) time.Duration {
    v := envOr(key, "")
    if v == "" {
        return def
    }
    if d, err := time.ParseDuration(v); err == nil && d > 0 {
        return d
    }
    return def
}
