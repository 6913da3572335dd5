package game

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RoundResult summarises a finished round for the archive and the event feed.
type RoundResult struct {
	ID          string                    `json:"id"`
	StartedAt   time.Time                 `json:"started_at"`
	EndedAt     time.Time                 `json:"ended_at"`
	Reason      EndReason                 `json:"reason"`
	Commissions map[int64]decimal.Decimal `json:"commissions"`
	Winners     []int64                   `json:"winners"`
	Commits     int                       `json:"commits"`
}

// Winners returns every agent sharing the highest commission. No agent wins
// when the highest commission is not positive.
func Winners(commissions map[int64]decimal.Decimal) []int64 {
	var (
		best    decimal.Decimal
		winners []int64
	)
	for id, c := range commissions {
		switch {
		case !c.IsPositive():
		case winners == nil || c.GreaterThan(best):
			best = c
			winners = []int64{id}
		case c.Equal(best):
			winners = append(winners, id)
		}
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i] < winners[j] })
	return winners
}
