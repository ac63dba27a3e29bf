package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_RequiresAPIBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when API_BASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://billing-api:5000/api/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIBaseURL != "http://billing-api:5000/api" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Errorf("expected 8h session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.APITimeout != 15*time.Second {
		t.Errorf("unexpected durations: cache=%s api=%s", cfg.CacheTTL, cfg.APITimeout)
	}
	if cfg.SessionStore != StoreMemory || cfg.CacheBackend != StoreMemory {
		t.Errorf("expected memory backends, got %s/%s", cfg.SessionStore, cfg.CacheBackend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate in development: %v", err)
	}
}

func TestLoad_CORSOriginsList(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api")
	t.Setenv("CORS_ORIGINS", "https://console.clinic.test, https://admin.clinic.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.clinic.test" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_CORSOriginsSeparators(t *testing.T) {
	tests := map[string][]string{
		"https://a.test,https://b.test":      {"https://a.test", "https://b.test"},
		"https://a.test https://b.test":      {"https://a.test", "https://b.test"},
		" https://a.test ,, https://b.test ": {"https://a.test", "https://b.test"},
		"https://a.test":                     {"https://a.test"},
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("API_BASE_URL", "http://api")
			t.Setenv("CORS_ORIGINS", raw)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(cfg.CORSOrigins, "|") != strings.Join(want, "|") {
				t.Errorf("CORS_ORIGINS=%q: got %q, want %q", raw, cfg.CORSOrigins, want)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Env:          "development",
		APIBaseURL:   "http://localhost:5000/api",
		SessionStore: StoreMemory,
		CacheBackend: StoreMemory,
		SessionTTL:   time.Hour,
	}
}

func TestValidate(t *testing.T) {
	key := strings.Repeat("ab", 32)
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"relative api url", func(c *Config) { c.APIBaseURL = "/api" }, "API_BASE_URL"},
		{"unknown store", func(c *Config) { c.SessionStore = "file" }, "SESSION_STORE"},
		{"redis store without url", func(c *Config) { c.SessionStore = StoreRedis }, "REDIS_URL"},
		{"postgres store without url", func(c *Config) { c.SessionStore = StorePostgres }, "DATABASE_URL"},
		{"redis cache without url", func(c *Config) { c.CacheBackend = StoreRedis }, "REDIS_URL"},
		{"production without key", func(c *Config) { c.Env = "production"; c.SessionCookieSecure = true }, "SESSION_SIGNING_KEY is required"},
		{"short key", func(c *Config) { c.SessionSigningKey = "abcd" }, "at least 32 bytes"},
		{"bad hex", func(c *Config) { c.SessionSigningKey = strings.Repeat("zz", 32) }, "not valid hex"},
		{"production insecure cookie", func(c *Config) { c.Env = "production"; c.SessionSigningKey = key }, "SESSION_COOKIE_SECURE"},
		{"production ok", func(c *Config) { c.Env = "production"; c.SessionSigningKey = key; c.SessionCookieSecure = true }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSigningKey(t *testing.T) {
	c := validConfig()
	key, generated, err := c.SigningKey()
	if err != nil || !generated || len(key) != 32 {
		t.Errorf("expected generated 32-byte dev key, got %d bytes generated=%v err=%v", len(key), generated, err)
	}

	c.SessionSigningKey = strings.Repeat("01", 32)
	key, generated, err = c.SigningKey()
	if err != nil || generated || key[0] != 1 {
		t.Errorf("expected configured key, got %v generated=%v err=%v", key, generated, err)
	}

	c = validConfig()
	c.Env = "production"
	if _, _, err := c.SigningKey(); err == nil {
		t.Error("expected error without key outside development")
	}
}
