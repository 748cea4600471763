package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/taskflow/taskflow-api/internal/config"
)

// RateLimit is a fixed-window request limiter over Redis: one INCR per
// request on a per-user-per-route counter that expires with the window.
// Reads and writes get separate budgets.  When Redis is unavailable the
// limiter fails open — throttling is protection, not a correctness
// requirement.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	// Guard against configs built outside LoadRateLimitConfig: a window
	// shorter than the one-second bucket granularity would divide by zero.
	windowSecs := int64(cfg.Window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limit := cfg.WriteLimit
			if c.Request().Method == http.MethodGet {
				limit = cfg.ReadLimit
			}

			who := c.RealIP()
			if uid, ok := UserID(c); ok {
				who = "u" + strconv.FormatUint(uid, 10)
			}
			window := time.Now().Unix() / windowSecs
			key := fmt.Sprintf("%s:%s:%s:%s:%d", cfg.Prefix, who, c.Request().Method, c.Path(), window)

			ctx := c.Request().Context()
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, time.Duration(windowSecs)*time.Second).Err()
			}
			if n > int64(limit) {
				c.Response().Header().Set("Retry-After", strconv.FormatInt(windowSecs, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
