package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadGameDefaults(t *testing.T) {
	cfg, err := LoadGame()
	if err != nil {
		t.Fatalf("LoadGame() error = %v", err)
	}
	if cfg.CustsToGen != 5 || cfg.RoutesToGen != 24 || cfg.RoundTicks != 180 {
		t.Fatalf("unexpected round defaults: %+v", cfg)
	}
	if cfg.TickEvery != time.Second {
		t.Fatalf("TickEvery = %v, want 1s", cfg.TickEvery)
	}
	if !cfg.CommissionRatio.Equal(decimal.RequireFromString("0.1")) {
		t.Fatalf("CommissionRatio = %s, want 0.1", cfg.CommissionRatio)
	}
	if !cfg.RebookPenalty.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("RebookPenalty = %s, want 5", cfg.RebookPenalty)
	}
	if got := len(cfg.CityList()); got != 10 {
		t.Fatalf("CityList() len = %d, want 10", got)
	}
}

func TestLoadGameOverrides(t *testing.T) {
	t.Setenv("CUSTS_TO_GEN", "2")
	t.Setenv("PING_STALE_AFTER", "500ms")
	t.Setenv("COMMISSION_RATIO", "0.25")
	t.Setenv("CITIES", "SFO, LAX ,JFK")

	cfg, err := LoadGame()
	if err != nil {
		t.Fatalf("LoadGame() error = %v", err)
	}
	if cfg.CustsToGen != 2 || cfg.PingStaleAfter != 500*time.Millisecond {
		t.Fatalf("unexpected game config: %+v", cfg)
	}
	if !cfg.CommissionRatio.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("CommissionRatio = %s", cfg.CommissionRatio)
	}
	if want := []string{"SFO", "LAX", "JFK"}; !reflect.DeepEqual(cfg.CityList(), want) {
		t.Fatalf("CityList() = %v, want %v", cfg.CityList(), want)
	}
}

func TestLoadGameRejectsBadDuration(t *testing.T) {
	t.Setenv("RPC_TIMEOUT", "soon")
	if _, err := LoadGame(); err == nil {
		t.Fatalf("expected parse error")
	}
}
