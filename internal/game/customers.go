package game

import (
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"
)

// Score is a hops/cost result. The zero value means no result yet.
type Score struct {
	Hops int             `json:"hops"`
	Cost decimal.Decimal `json:"cost"`
}

func (s Score) IsZero() bool {
	return s.Hops == 0 && s.Cost.IsZero()
}

// Beats reports whether s is a better result than other: strictly more
// hops wins, and among equal hops strictly lower cost wins.
func (s Score) Beats(other Score) bool {
	if s.IsZero() {
		return false
	}
	if other.IsZero() {
		return true
	}
	if s.Hops != other.Hops {
		return s.Hops > other.Hops
	}
	return s.Cost.LessThan(other.Cost)
}

type AgentBest struct {
	Score
	CommitCount int `json:"commit_count"`
}

type Customer struct {
	ID                int                  `json:"id"`
	Pair              string               `json:"pair"`
	Best              Score                `json:"best"`
	BestAgentID       int64                `json:"best_agent_id,omitempty"`
	BestReservationID string               `json:"best_reservation_id,omitempty"`
	PerAgent          map[int64]*AgentBest `json:"per_agent"`
}

// RecordCommit folds a committed reservation into the customer's scoring.
// It reports whether the customer's overall best changed.
func (c *Customer) RecordCommit(agentID int64, reservationID string, s Score) bool {
	ab := c.PerAgent[agentID]
	if ab == nil {
		ab = &AgentBest{}
		c.PerAgent[agentID] = ab
	}
	ab.CommitCount++
	if s.Beats(ab.Score) {
		ab.Score = s
	}
	if !s.Beats(c.Best) {
		return false
	}
	c.Best = s
	c.BestAgentID = agentID
	c.BestReservationID = reservationID
	return true
}

func (c *Customer) Clone() Customer {
	out := *c
	out.PerAgent = make(map[int64]*AgentBest, len(c.PerAgent))
	for id, ab := range c.PerAgent {
		cp := *ab
		out.PerAgent[id] = &cp
	}
	return out
}

type Customers struct {
	byID map[int]*Customer
}

func NewCustomers() *Customers {
	return &Customers{byID: map[int]*Customer{}}
}

func (s *Customers) Get(id int) (*Customer, bool) {
	c, ok := s.byID[id]
	return c, ok
}

func (s *Customers) Len() int {
	return len(s.byID)
}

// All returns customers ordered by id.
func (s *Customers) All() []*Customer {
	out := make([]*Customer, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Customers) Replace(list []*Customer) {
	s.byID = make(map[int]*Customer, len(list))
	for _, c := range list {
		s.byID[c.ID] = c
	}
}

func (s *Customers) Clear() {
	s.byID = map[int]*Customer{}
}

// GenerateCustomers draws n distinct pairs with differing endpoints from cities.
func GenerateCustomers(rng *rand.Rand, cities []string, n int) ([]*Customer, error) {
	var all []string
	seen := map[string]bool{}
	for i := range cities {
		for j := i + 1; j < len(cities); j++ {
			p, err := NewPair(cities[i], cities[j])
			if err != nil || seen[p.String()] {
				continue
			}
			seen[p.String()] = true
			all = append(all, p.String())
		}
	}
	if n < 0 || n > len(all) {
		return nil, ErrTooManyCustomers
	}
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	out := make([]*Customer, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &Customer{
			ID:       i + 1,
			Pair:     all[i],
			PerAgent: map[int64]*AgentBest{},
		})
	}
	return out, nil
}

// CommissionPolicy turns customer results into agent commission.
type CommissionPolicy struct {
	Ratio   decimal.Decimal
	Penalty decimal.Decimal
}

// Commissions recomputes every agent's commission from scratch. For each
// customer with a best agent the contribution is
// bestCost*Ratio - Penalty*(commitCount-1), where commitCount is that
// agent's number of commits for the customer.
func (p CommissionPolicy) Commissions(customers []*Customer) map[int64]decimal.Decimal {
	out := map[int64]decimal.Decimal{}
	for _, c := range customers {
		if c.BestAgentID == 0 {
			continue
		}
		commits := 1
		if ab := c.PerAgent[c.BestAgentID]; ab != nil && ab.CommitCount > 0 {
			commits = ab.CommitCount
		}
		contrib := c.Best.Cost.Mul(p.Ratio).Sub(p.Penalty.Mul(decimal.NewFromInt(int64(commits - 1))))
		out[c.BestAgentID] = out[c.BestAgentID].Add(contrib)
	}
	return out
}
