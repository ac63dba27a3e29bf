package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func rateLimitedRequest(e *echo.Echo, h echo.HandlerFunc, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	h(e.NewContext(req, rec))
	return rec
}

func okRateHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRateLimit_RequestsWithinLimit(t *testing.T) {
	e := echo.New()
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 5})(okRateHandler)

	for i := 0; i < 5; i++ {
		if rec := rateLimitedRequest(e, h, "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRateLimit_ExceedsLimit(t *testing.T) {
	e := echo.New()
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})(okRateHandler)

	rateLimitedRequest(e, h, "10.0.0.2")
	rateLimitedRequest(e, h, "10.0.0.2")
	rec := rateLimitedRequest(e, h, "10.0.0.2")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Error("expected X-RateLimit-Remaining: 0")
	}
}

func TestRateLimit_PerKeyIsolation(t *testing.T) {
	e := echo.New()
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})(okRateHandler)

	rateLimitedRequest(e, h, "10.0.0.3")
	if rec := rateLimitedRequest(e, h, "10.0.0.3"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected second request from same IP to be limited, got %d", rec.Code)
	}
	if rec := rateLimitedRequest(e, h, "10.0.0.4"); rec.Code != http.StatusOK {
		t.Errorf("expected other IP to pass, got %d", rec.Code)
	}
}

func TestRateLimit_DisabledWithZeroRate(t *testing.T) {
	e := echo.New()
	h := RateLimit(RateLimitConfig{})(okRateHandler)
	for i := 0; i < 50; i++ {
		if rec := rateLimitedRequest(e, h, "10.0.0.5"); rec.Code != http.StatusOK {
			t.Fatalf("expected limiter disabled, got %d", rec.Code)
		}
	}
}

func TestRateLimit_DefaultConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond <= 0 || cfg.BurstSize <= 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLimiterStore_EvictsIdle(t *testing.T) {
	s := newLimiterStore(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	now := time.Now()
	s.now = func() time.Time { return now }
	s.get("a")
	now = now.Add(2 * time.Minute)
	s.get("b")

	s.mu.Lock()
	s.evictLocked(now)
	n := len(s.clients)
	s.mu.Unlock()
	if n != 1 {
		t.Errorf("expected idle limiter to be evicted, %d left", n)
	}
}
