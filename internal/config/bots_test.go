package config

import "testing"

func TestLoadAgentBotDefaults(t *testing.T) {
	cfg, err := LoadAgentBot()
	if err != nil {
		t.Fatalf("LoadAgentBot() error = %v", err)
	}
	if cfg.ServerURL != "http://localhost:3000" {
		t.Fatalf("ServerURL = %q, want http://localhost:3000", cfg.ServerURL)
	}
	if cfg.Name != "demo-agent" {
		t.Fatalf("Name = %q, want demo-agent", cfg.Name)
	}
}

func TestLoadProviderBotOverrides(t *testing.T) {
	t.Setenv("RC_URL", "http://127.0.0.1:9000")
	t.Setenv("PROVIDER_NAME", "ProvA")
	t.Setenv("PROVIDER_FAIL_RATE", "0.5")

	cfg, err := LoadProviderBot()
	if err != nil {
		t.Fatalf("LoadProviderBot() error = %v", err)
	}
	if cfg.ServerURL != "http://127.0.0.1:9000" || cfg.Name != "ProvA" {
		t.Fatalf("unexpected provider bot config: %+v", cfg)
	}
	if cfg.FailRate != 0.5 {
		t.Fatalf("FailRate = %v, want 0.5", cfg.FailRate)
	}
}
