package middleware

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/uniliving/backend/internal/config"
)

// RateLimit returns a fixed-window limiter keyed on client IP and route,
// backed by Redis so the limit holds across instances.  With limiting
// disabled or no Redis client available it degrades to a pass-through, and
// a Redis error at request time fails open rather than blocking traffic.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    // INCR + EXPIRE in one script so the window TTL is set exactly once,
    // when the counter is created.
    script := redis.NewScript(`
        local n = redis.call('INCR', KEYS[1])
        if n == 1 then
            redis.call('PEXPIRE', KEYS[1], ARGV[1])
        end
        local ttl = redis.call('PTTL', KEYS[1])
        return { n, ttl }
    `)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := cfg.Prefix + ":" + c.RealIP() + ":" + c.Path()
            vals, err := script.Run(c.Request().Context(), rdb,
                []string{key}, cfg.Window.Milliseconds()).Int64Slice()
            if err != nil || len(vals) != 2 {
                return next(c)
            }
            count, ttlMs := vals[0], vals[1]

            remaining := int64(cfg.Limit) - count
            if remaining < 0 {
                remaining = 0
            }
            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if count > int64(cfg.Limit) {
                retry := int((time.Duration(ttlMs) * time.Millisecond).Seconds())
                if retry < 1 {
                    retry = 1
                }
                c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "message":     "rate limit exceeded",
                    "retry_after": retry,
                })
            }
            return next(c)
        }
    }
}
