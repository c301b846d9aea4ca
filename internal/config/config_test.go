package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port: %s", cfg.Port)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("store: %s", cfg.Store)
	}
	if cfg.DataDir != "data" {
		t.Errorf("data dir: %s", cfg.DataDir)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
	if cfg.TokenTTL() != 168*time.Hour {
		t.Errorf("token ttl: %v", cfg.TokenTTL())
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("cors: %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("TOKEN_TTL_HOURS", "24")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("port: %s", cfg.Port)
	}
	if cfg.IsDev() {
		t.Error("production should not be dev")
	}
	if cfg.TokenTTL() != 24*time.Hour {
		t.Errorf("token ttl: %v", cfg.TokenTTL())
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors: %v", cfg.CORSOrigins)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadValidatesStore(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE", "redis")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store")
	}

	t.Setenv("STORE", StorePostgres)
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/docclock")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StorePostgres {
		t.Errorf("store: %s", cfg.Store)
	}
}
