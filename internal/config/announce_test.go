package config

import (
	"testing"
	"time"
)

func TestLoadAnnounceDefaults(t *testing.T) {
	cfg, err := LoadAnnounce()
	if err != nil {
		t.Fatalf("LoadAnnounce() error = %v", err)
	}
	if cfg.TargetsJSON != "" || cfg.Workers != 2 || cfg.RetryMax != 3 {
		t.Fatalf("unexpected announce defaults: %+v", cfg)
	}
	if cfg.RetryBase != 500*time.Millisecond || cfg.CircuitOpen != 30*time.Second {
		t.Fatalf("unexpected announce durations: %+v", cfg)
	}
}

func TestLoadAnnounceOverrides(t *testing.T) {
	t.Setenv("ANNOUNCE_TARGETS", `[{"platform":"discord"}]`)
	t.Setenv("ANNOUNCE_RETRY_BASE", "2s")

	cfg, err := LoadAnnounce()
	if err != nil {
		t.Fatalf("LoadAnnounce() error = %v", err)
	}
	if cfg.TargetsJSON == "" || cfg.RetryBase != 2*time.Second {
		t.Fatalf("unexpected announce config: %+v", cfg)
	}
}
