package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/taskflow/taskflow-api/internal/config"
)

func setupLimiter(t *testing.T, cfg config.RateLimitConfig) *echo.Echo {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})

	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/v1/boards", ok, identity(1), RateLimit(cfg, rdb))
	e.POST("/v1/boards", ok, identity(1), RateLimit(cfg, rdb))
	return e
}

func TestRateLimitSubSecondWindow(t *testing.T) {
	// A window below bucket granularity must clamp, not divide by zero.
	e := setupLimiter(t, config.RateLimitConfig{
		Enabled:    true,
		ReadLimit:  5,
		WriteLimit: 5,
		Window:     500 * time.Millisecond,
		Prefix:     "rl",
	})
	rec := doGET(e, "/v1/boards")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestRateLimitBlocksOverBudget(t *testing.T) {
	e := setupLimiter(t, config.RateLimitConfig{
		Enabled:    true,
		ReadLimit:  2,
		WriteLimit: 1,
		Window:     time.Minute,
		Prefix:     "rl",
	})

	for i := 0; i < 2; i++ {
		if rec := doGET(e, "/v1/boards"); rec.Code != http.StatusOK {
			t.Fatalf("read %d: status %d", i+1, rec.Code)
		}
	}
	rec := doGET(e, "/v1/boards")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third read: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
}

func TestRateLimitSeparateReadWriteBudgets(t *testing.T) {
	e := setupLimiter(t, config.RateLimitConfig{
		Enabled:    true,
		ReadLimit:  10,
		WriteLimit: 1,
		Window:     time.Minute,
		Prefix:     "rl",
	})

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/v1/boards", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := post(); code != http.StatusOK {
		t.Fatalf("first write: status %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("second write: status %d, want 429", code)
	}
	// Reads keep their own budget.
	if rec := doGET(e, "/v1/boards"); rec.Code != http.StatusOK {
		t.Errorf("read after write throttle: status %d", rec.Code)
	}
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, ReadLimit: 1, WriteLimit: 1, Window: time.Minute, Prefix: "rl"}
	e := echo.New()
	e.GET("/v1/boards", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		identity(1), RateLimit(cfg, nil))

	for i := 0; i < 3; i++ {
		if rec := doGET(e, "/v1/boards"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, rec.Code)
		}
	}
}
