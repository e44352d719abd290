package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Port)
	}
	if cfg.JWTExpiry != 168*time.Hour {
		t.Errorf("expected default expiry 168h, got %s", cfg.JWTExpiry)
	}
	if cfg.RateLimit.Max != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Mongo.Database != "issuedesk" {
		t.Errorf("unexpected mongo database: %s", cfg.Mongo.Database)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRY", "24h")
	t.Setenv("RATE_LIMIT_MAX", "10")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.JWTExpiry != 24*time.Hour || cfg.RateLimit.Max != 10 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}
