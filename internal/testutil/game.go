package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"reservation-coordinator/internal/config"
)

// FastGameConfig runs a two-city game on a 5ms tick. Participants never go
// stale during a test and a round outlasts any test.
func FastGameConfig() config.GameConfig {
	return config.GameConfig{
		CustsToGen:            1,
		RoutesToGen:           8,
		RoundTicks:            100_000,
		TickEvery:             5 * time.Millisecond,
		ReadyDelayTicks:       0,
		ReadyCountdownTicks:   1,
		ReconnectTimeoutTicks: 100,
		PendingTimeoutTicks:   1_000,
		PingStaleAfter:        time.Hour,
		MissedPingGrace:       0,
		AgentDeleteAfter:      time.Hour,
		ProviderDeleteAfter:   time.Hour,
		CommissionRatio:       decimal.RequireFromString("0.1"),
		RebookPenalty:         decimal.NewFromInt(5),
		RPCTimeout:            time.Second,
		RPCConcurrency:        4,
		Cities:                "AB",
		MailboxMax:            100,
	}
}
