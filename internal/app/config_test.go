package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AppAddr != ":8080" {
		t.Fatalf("addr %q", cfg.AppAddr)
	}
	if cfg.AuthTokenTTL != 12*time.Hour {
		t.Fatalf("auth token ttl %v", cfg.AuthTokenTTL)
	}
	if cfg.EditorSessionTTL != 2*time.Hour {
		t.Fatalf("editor session ttl %v", cfg.EditorSessionTTL)
	}
	if cfg.SaveGuardTTL != 30*time.Second {
		t.Fatalf("save guard ttl %v", cfg.SaveGuardTTL)
	}
	if cfg.IsProduction() {
		t.Fatal("default env must not be production")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("EDITOR_SESSION_TTL", "45m")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production env")
	}
	if cfg.EditorSessionTTL != 45*time.Minute {
		t.Fatalf("editor session ttl %v", cfg.EditorSessionTTL)
	}
}
