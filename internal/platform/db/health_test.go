package db

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runHealth(t *testing.T, checks ...Check) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/readyz", nil), rec)

	if err := HealthHandler(checks...)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	ok := Check{Name: "redis", Ping: func(context.Context) error { return nil }}
	code, body := runHealth(t, ok)

	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", body["status"])
	}
}

func TestHealthHandler_OneFailing(t *testing.T) {
	ok := Check{Name: "redis", Ping: func(context.Context) error { return nil }}
	bad := Check{Name: "postgres", Ping: func(context.Context) error { return errors.New("connection refused") }}
	code, body := runHealth(t, ok, bad)

	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	checks, _ := body["checks"].(map[string]interface{})
	pg, _ := checks["postgres"].(map[string]interface{})
	if pg["error"] != "connection refused" {
		t.Errorf("expected postgres error, got %v", pg)
	}
}

func TestHealthHandler_NoChecks(t *testing.T) {
	code, _ := runHealth(t)
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
}

func TestPoolStats_JSONTags(t *testing.T) {
	buf, err := json.Marshal(PoolStats{TotalConns: 3, MaxConns: 10})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	json.Unmarshal(buf, &m)
	for _, key := range []string{"total_conns", "idle_conns", "acquired_conns", "max_conns", "acquire_count", "acquire_duration"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing JSON key %q", key)
		}
	}
}
