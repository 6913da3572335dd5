package game

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(hops int, cost int64) Score {
	return Score{Hops: hops, Cost: decimal.NewFromInt(cost)}
}

func TestScoreBeats(t *testing.T) {
	assert.True(t, score(2, 50).Beats(score(1, 10)))
	assert.True(t, score(2, 40).Beats(score(2, 50)))
	assert.False(t, score(2, 50).Beats(score(2, 50)))
	assert.False(t, score(1, 5).Beats(score(2, 50)))
	assert.True(t, score(1, 5).Beats(Score{}))
	assert.False(t, Score{}.Beats(Score{}))
}

func TestGenerateCustomersDistinct(t *testing.T) {
	cities := []string{"A", "B", "C", "D", "E"}
	list, err := GenerateCustomers(rand.New(rand.NewSource(1)), cities, 10)
	require.NoError(t, err)
	require.Len(t, list, 10)
	seen := map[string]bool{}
	for i, c := range list {
		assert.Equal(t, i+1, c.ID)
		p, err := ParsePair(c.Pair)
		require.NoError(t, err)
		assert.NotEqual(t, p.A, p.B)
		assert.False(t, seen[c.Pair], c.Pair)
		seen[c.Pair] = true
	}

	_, err = GenerateCustomers(rand.New(rand.NewSource(1)), cities, 11)
	assert.ErrorIs(t, err, ErrTooManyCustomers)
}

func TestRecordCommitTracksBestAndCounts(t *testing.T) {
	c := &Customer{ID: 1, Pair: "A-B", PerAgent: map[int64]*AgentBest{}}
	assert.True(t, c.RecordCommit(1, "r1", score(1, 100)))
	assert.False(t, c.RecordCommit(2, "r2", score(1, 120)))
	assert.True(t, c.RecordCommit(2, "r3", score(2, 200)))
	assert.Equal(t, int64(2), c.BestAgentID)
	assert.Equal(t, "r3", c.BestReservationID)
	assert.Equal(t, 2, c.PerAgent[2].CommitCount)
	assert.Equal(t, 2, c.PerAgent[2].Hops)
}

func TestCommissionsRecomputedFromScratch(t *testing.T) {
	policy := CommissionPolicy{Ratio: decimal.RequireFromString("0.1"), Penalty: decimal.NewFromInt(5)}
	a := &Customer{ID: 1, Pair: "A-B", PerAgent: map[int64]*AgentBest{}}
	b := &Customer{ID: 2, Pair: "C-D", PerAgent: map[int64]*AgentBest{}}
	a.RecordCommit(7, "r1", score(1, 100))
	a.RecordCommit(7, "r2", score(2, 300))
	b.RecordCommit(8, "r3", score(1, 50))

	first := policy.Commissions([]*Customer{a, b})
	second := policy.Commissions([]*Customer{a, b})
	// 300*0.1 - 5*(2-1)
	assert.True(t, first[7].Equal(decimal.NewFromInt(25)), first[7].String())
	assert.True(t, first[8].Equal(decimal.NewFromInt(5)), first[8].String())
	assert.True(t, first[7].Equal(second[7]))
	assert.True(t, first[8].Equal(second[8]))
}

func TestWinners(t *testing.T) {
	assert.Nil(t, Winners(map[int64]decimal.Decimal{1: decimal.Zero, 2: decimal.Zero}))
	assert.Equal(t, []int64{1, 3}, Winners(map[int64]decimal.Decimal{
		1: decimal.NewFromInt(10),
		2: decimal.NewFromInt(4),
		3: decimal.NewFromInt(10),
	}))
	assert.Nil(t, Winners(map[int64]decimal.Decimal{1: decimal.NewFromInt(-3)}))
}
