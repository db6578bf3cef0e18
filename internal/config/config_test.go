package config_test

import (
	"testing"
	"time"

	"github.com/invoiceworks/backend-invoicing/internal/config"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	if err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":       "postgres://localhost:5432/invoicing",
		"REDIS_URL":          "redis://localhost:6379/0",
		"PORT":               "",
		"CURRENCY_CODE":      "",
		"DASHBOARD_CACHE_TTL": "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":1969" {
		t.Errorf("HTTPAddr = %q, want :1969", cfg.HTTPAddr())
	}
	if cfg.CurrencyCode != "INR" {
		t.Errorf("CurrencyCode = %q, want INR", cfg.CurrencyCode)
	}
	if cfg.DefaultDueDays != 15 {
		t.Errorf("DefaultDueDays = %d, want 15", cfg.DefaultDueDays)
	}
	if cfg.DashboardCacheTTL != time.Minute {
		t.Errorf("DashboardCacheTTL = %v, want 1m", cfg.DashboardCacheTTL)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":        "postgres://localhost:5432/invoicing",
		"REDIS_URL":           "redis://localhost:6379/0",
		"PORT":                "8088",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"DASHBOARD_CACHE_TTL": "5m",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":8088" {
		t.Errorf("HTTPAddr = %q, want :8088", cfg.HTTPAddr())
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.DashboardCacheTTL != 5*time.Minute {
		t.Errorf("DashboardCacheTTL = %v, want 5m", cfg.DashboardCacheTTL)
	}
}
