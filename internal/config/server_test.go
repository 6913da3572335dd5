package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("HTTPAddr = %q, want :3000", cfg.HTTPAddr)
	}
	if cfg.PostgresDSN != "" {
		t.Fatalf("PostgresDSN = %q, want empty", cfg.PostgresDSN)
	}
	if cfg.StaticDir != "public" || cfg.CORSAllowOrigin != "*" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/rc?sslmode=disable")
	t.Setenv("ADMIN_API_KEY", "secret")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.AdminAPIKey != "secret" {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if cfg.PostgresDSN == "" {
		t.Fatalf("PostgresDSN not loaded")
	}
}
