package middleware

import (
    "bytes"
    "encoding/json"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/uniliving/backend/internal/config"
)

// cachedResponse is the stored form of a cacheable response.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// bodyRecorder tees the response body so it can be stored after the
// handler ran.
type bodyRecorder struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
}

func (w *bodyRecorder) WriteHeader(status int) {
    w.status = status
    w.ResponseWriter.WriteHeader(status)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
    w.buf.Write(b)
    return w.ResponseWriter.Write(b)
}

// ResponseCache caches successful GET responses in Redis, keyed on route
// path and query string.  Intended for the public listing endpoints, where
// short staleness is acceptable.  Disabled configuration or a nil Redis
// client makes it a pass-through, and Redis errors fail open.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            key := cfg.Prefix + ":" + c.Request().URL.Path + "?" + c.Request().URL.RawQuery

            ctx := c.Request().Context()
            if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var cached cachedResponse
                if json.Unmarshal(raw, &cached) == nil {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(cached.Status, cached.ContentType, cached.Body)
                }
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
            c.Response().Writer = rec
            if err := next(c); err != nil {
                return err
            }

            if rec.status == http.StatusOK && rec.buf.Len() <= cfg.MaxBodyBytes {
                raw, err := json.Marshal(cachedResponse{
                    Status:      rec.status,
                    ContentType: c.Response().Header().Get(echo.HeaderContentType),
                    Body:        rec.buf.Bytes(),
                })
                if err == nil {
                    _ = rdb.Set(ctx, key, raw, cfg.TTL).Err()
                }
            }
            return nil
        }
    }
}
