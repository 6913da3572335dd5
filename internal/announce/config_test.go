package announce

import (
	"os"
	"path/filepath"
	"testing"

	"reservation-coordinator/internal/config"
)

func TestConfigFromEnvFiltersTargets(t *testing.T) {
	cfg, err := ConfigFromEnv(config.AnnounceConfig{
		Workers: 2,
		TargetsJSON: `[
		  {"platform":" Discord ","endpoint":"https://a","event_allowlist":[" Winner "],"enabled":true},
		  {"platform":"feishu","endpoint":"","enabled":true},
		  {"platform":"discord","endpoint":"https://b","enabled":false}
		]`,
	})
	if err != nil {
		t.Fatalf("config parse failed: %v", err)
	}
	if len(cfg.Targets) != 1 {
		t.Fatalf("expected 1 filtered target, got %d", len(cfg.Targets))
	}
	if cfg.Targets[0].Platform != "discord" || cfg.Targets[0].EventAllowlist[0] != "winner" {
		t.Fatalf("unexpected target: %#v", cfg.Targets[0])
	}
}

func TestConfigFromEnvUsesPathFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.json")
	if err := os.WriteFile(path, []byte(`[{"platform":"feishu","endpoint":"https://from-file","enabled":true}]`), 0o600); err != nil {
		t.Fatalf("write targets: %v", err)
	}
	cfg, err := ConfigFromEnv(config.AnnounceConfig{
		TargetsPath: path,
		TargetsJSON: `[{"platform":"discord","endpoint":"https://from-env","enabled":true}]`,
	})
	if err != nil {
		t.Fatalf("config parse failed: %v", err)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Endpoint != "https://from-file" {
		t.Fatalf("expected file targets, got %#v", cfg.Targets)
	}
}

func TestConfigFromEnvRejectsBadJSON(t *testing.T) {
	if _, err := ConfigFromEnv(config.AnnounceConfig{TargetsJSON: "{"}); err == nil {
		t.Fatal("expected parse error")
	}
}
