package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	userID := uuid.New()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(userID), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow(userID), "request 6 should be rate limited")
}

func TestRateLimiter_DifferentUsers(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	user1, user2 := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		rl.Allow(user1)
	}

	assert.False(t, rl.Allow(user1))
	assert.True(t, rl.Allow(user2))
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiterWithConfig(0, -1)
	defer rl.Stop()
	rl.Stop()

	assert.Equal(t, DefaultRateLimit, rl.perMinute)
	assert.Equal(t, DefaultBurstSize, rl.burstSize)
}

func TestRateLimiter_RemoveStale(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 2)
	defer rl.Stop()

	rl.Allow(uuid.New())

	assert.Equal(t, 0, rl.removeStale(time.Now()))
	assert.Equal(t, 1, rl.removeStale(time.Now().Add(LimiterTTL+time.Second)))
}

func TestRateLimitMiddleware_SkipsAnonymous(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	e := echo.New()
	handler := RateLimitMiddleware(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitMiddleware_LimitsUser(t *testing.T) {
	rl := NewRateLimiterWithConfig(30, 2)
	defer rl.Stop()

	e := echo.New()
	userID := uuid.New()
	handler := RateLimitMiddleware(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	request := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/report", nil)
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))
		return rec
	}

	first := request()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "30", first.Header().Get("X-RateLimit-Limit"))

	request()
	limited := request()
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "https://moneymate.app/errors/rate-limit")
}
