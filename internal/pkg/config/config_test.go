package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "dev-secret",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("unexpected port %s", cfg.Port)
	}
	if cfg.Session.CookieName != "portal_session" || cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
	if cfg.Pages.LoginPath != "/login" || cfg.Pages.HomePath != "/" {
		t.Fatalf("unexpected pages config %+v", cfg.Pages)
	}
	if cfg.Workers != 4 {
		t.Fatalf("unexpected workers %d", cfg.Workers)
	}
}

func TestLoadWith_RequiresSecret(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}

	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":        "production",
		"JWT_SECRET": "short",
	}))
	if err == nil {
		t.Fatalf("expected error for short production secret")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "dev-secret",
		"SESSION_TTL":  "2h",
		"FRONTEND_URL": "http://localhost:3000",
		"WORKERS":      "8",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.Session.TTL != 2*time.Hour || cfg.Pages.FrontendURL != "http://localhost:3000" || cfg.Workers != 8 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}
