package security_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"photo-asset-server/config"
	"photo-asset-server/internal/security"
)

func TestRateLimiterBurstThenDeny(t *testing.T) {
	limiter := security.NewRateLimiter(config.RatePolicy{RPS: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "burst запрос %d", i)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))

	// лимит по ключу, другой IP не страдает
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := security.NewRateLimiter(config.RatePolicy{})
	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := security.NewRateLimiter(config.RatePolicy{RPS: 1, Burst: 1})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := security.RateLimitMiddleware(limiter)(next)

	r := httptest.NewRequest(http.MethodGet, "/assets/a1b2/preview/IMG_1", nil)
	r.RemoteAddr = "10.0.0.1:34712"

	w := httptest.NewRecorder()
	limited.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	limited.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "no-store, must-revalidate", w.Header().Get("Cache-Control"))
}
