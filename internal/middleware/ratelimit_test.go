package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/office-seat-allocation/internal/config"
	"github.com/iliyamo/office-seat-allocation/internal/middleware"
)

func limitedEcho(cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.GET("/limited", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, middleware.RateLimit(cfg, rdb))
	return e
}

// unreachableRedis returns a client whose commands always fail, driving the
// limiter down its fail-open path without a running server.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRateLimitSubSecondWindow(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled: true,
		Limit:   5,
		Window:  500 * time.Millisecond,
		Prefix:  "rl",
	}
	e := limitedEcho(cfg, unreachableRedis())

	// The request must be served, not panic on the window arithmetic.
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitFailsOpenOnRedisError(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled: true,
		Limit:   1,
		Window:  time.Minute,
		Prefix:  "rl",
	}
	e := limitedEcho(cfg, unreachableRedis())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d must pass while redis is down", i)
	}
}

func TestRateLimitDisabledIsPassThrough(t *testing.T) {
	e := limitedEcho(config.RateLimitConfig{Enabled: false}, nil)

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
