package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// GameConfig holds the round parameters and the liveness and RPC thresholds.
// Tick counts are in units of TickInterval.
type GameConfig struct {
	CustsToGen  int           `env:"CUSTS_TO_GEN" envDefault:"5"`
	RoutesToGen int           `env:"ROUTES_TO_GEN" envDefault:"24"`
	RoundTicks  int           `env:"ROUND_TICKS" envDefault:"180"`
	TickEvery   time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`

	ReadyDelayTicks       int `env:"READY_DELAY_TICKS" envDefault:"3"`
	ReadyCountdownTicks   int `env:"READY_COUNTDOWN_TICKS" envDefault:"15"`
	ReconnectTimeoutTicks int `env:"RECONNECT_TIMEOUT_TICKS" envDefault:"60"`
	PendingTimeoutTicks   int `env:"PENDING_TIMEOUT_TICKS" envDefault:"30"`

	PingStaleAfter      time.Duration `env:"PING_STALE_AFTER" envDefault:"3s"`
	MissedPingGrace     int           `env:"MISSED_PING_GRACE" envDefault:"2"`
	AgentDeleteAfter    time.Duration `env:"AGENT_DELETE_AFTER" envDefault:"30s"`
	ProviderDeleteAfter time.Duration `env:"PROVIDER_DELETE_AFTER" envDefault:"30s"`

	CommissionRatio decimal.Decimal `env:"COMMISSION_RATIO" envDefault:"0.1"`
	RebookPenalty   decimal.Decimal `env:"REBOOK_PENALTY" envDefault:"5"`

	RPCTimeout     time.Duration `env:"RPC_TIMEOUT" envDefault:"5s"`
	RPCConcurrency int           `env:"RPC_CONCURRENCY" envDefault:"16"`

	Cities     string `env:"CITIES" envDefault:"ABCDEFGHIJ"`
	MailboxMax int    `env:"MAILBOX_MAX" envDefault:"500"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// CityList splits Cities into endpoint symbols. A comma separated value is
// taken as a list of names; otherwise every character is one symbol.
func (c GameConfig) CityList() []string {
	if strings.Contains(c.Cities, ",") {
		var out []string
		for _, s := range strings.Split(c.Cities, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	out := make([]string, 0, len(c.Cities))
	for _, r := range c.Cities {
		out = append(out, string(r))
	}
	return out
}
