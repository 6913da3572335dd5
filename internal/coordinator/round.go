package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"reservation-coordinator/internal/game"
)

// shares splits n routes across k providers; the first n%k get one extra.
func shares(n, k int) []int {
	if k <= 0 {
		return nil
	}
	out := make([]int, k)
	base, extra := n/k, n%k
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}

func (c *Coordinator) startRound() {
	var playing []*game.Provider
	for _, p := range c.providers.All() {
		p.Playing = false
		p.Share = 0
		p.HeldRoutes = nil
		if p.Active {
			playing = append(playing, p)
		}
	}
	if len(playing) == 0 {
		c.setState(game.StateNotReady)
		return
	}
	list, err := game.GenerateCustomers(c.rng, c.cities, c.cfg.CustsToGen)
	if err != nil {
		log.Error().Err(err).Int("custs_to_gen", c.cfg.CustsToGen).Int("cities", len(c.cities)).Msg("customer generation failed")
		c.setState(game.StateNotReady)
		return
	}

	c.roundID = game.NewID()
	c.roundStart = c.now()
	c.timer = c.cfg.RoundTicks
	c.pendingTicks = 0
	c.reconnectTicks = 0
	c.commits = 0
	c.inventory.Clear()
	c.reservations.Clear()
	c.customers.Replace(list)

	var agentIDs []int64
	for _, a := range c.agents.All() {
		a.Commission = decimal.Zero
		a.Playing = a.Active && a.Ready
		if a.Playing {
			// ready is consumed by joining; onlookers keep theirs for the next round
			a.Ready = false
			agentIDs = append(agentIDs, a.ID)
		}
	}
	split := shares(c.cfg.RoutesToGen, len(playing))
	for i, p := range playing {
		p.Playing = true
		p.Share = split[i]
	}

	log.Info().
		Str("round_id", c.roundID).
		Ints64("agents", agentIDs).
		Int("providers", len(playing)).
		Int("customers", len(list)).
		Msg("round starting")
	c.setState(game.StatePending)
	c.broadcast(game.KindState, fmt.Sprintf("round %s starting", c.roundID), map[string]any{"round_id": c.roundID})

	for _, p := range playing {
		c.requestOffers(p, p.Share, true)
	}
}

// requestOffers asks a provider for n fresh offers, resetting its inventory
// first when reset is set. Results for an earlier round are discarded.
func (c *Coordinator) requestOffers(p *game.Provider, n int, reset bool) {
	roundID, providerID, uri := c.roundID, p.ID, p.URI
	op := "add"
	if reset {
		op = "reset"
	}
	go func() {
		ctx, cancel := context.WithTimeout(c.ctx, c.cfg.RPCTimeout)
		defer cancel()
		metricProviderRPCTotal.Add(op, 1)
		var (
			offers []game.LegOffer
			err    error
		)
		if reset {
			offers, err = c.client.Reset(ctx, uri, n)
		} else {
			offers, err = c.client.Add(ctx, uri, n)
		}
		c.post(func() {
			p, ok := c.providers.Get(providerID)
			if !ok {
				return
			}
			c.recordRPC(p, op, err)
			if err != nil {
				log.Warn().Err(err).Int64("provider_id", providerID).Str("op", op).Msg("provider offers failed")
				return
			}
			if roundID != c.roundID || !p.Playing {
				return
			}
			got := c.inventory.Ingest(p, offers)
			if got < len(offers) {
				log.Warn().
					Int64("provider_id", providerID).
					Str("op", op).
					Int("returned", len(offers)).
					Int("ingested", got).
					Msg("provider returned unusable offers")
				c.recordRPC(p, op, fmt.Errorf("%d of %d offers unusable", len(offers)-got, len(offers)))
				return
			}
			log.Debug().Int64("provider_id", providerID).Str("op", op).Int("offers", got).Msg("provider offers ingested")
		})
	}()
}

func (c *Coordinator) recordRPC(p *game.Provider, op string, err error) {
	if err != nil {
		metricProviderRPCErrors.Add(op, 1)
		p.ErrCount++
		return
	}
	p.ErrCount = 0
}

// finishRound tears the round down and announces the winners. Customers stay
// visible until the next round starts, and so does any ready flag set by an
// agent that sat the round out.
func (c *Coordinator) finishRound(reason game.EndReason) {
	commissions := map[int64]decimal.Decimal{}
	for _, a := range c.agents.All() {
		if a.Playing {
			commissions[a.ID] = a.Commission
		}
	}
	winners := game.Winners(commissions)
	result := game.RoundResult{
		ID:          c.roundID,
		StartedAt:   c.roundStart,
		EndedAt:     c.now(),
		Reason:      reason,
		Commissions: commissions,
		Winners:     winners,
		Commits:     c.commits,
	}

	c.inventory.Clear()
	c.reservations.Clear()
	for _, p := range c.providers.All() {
		p.HeldRoutes = nil
		p.Playing = false
		p.Share = 0
	}
	for _, a := range c.agents.All() {
		a.Playing = false
	}
	c.timer = 0
	c.readyCountdown = -1
	c.setState(game.StateNotReady)

	metricRoundsTotal.Add(string(reason), 1)
	log.Info().
		Str("round_id", result.ID).
		Str("reason", string(reason)).
		Ints64("winners", winners).
		Int("commits", result.Commits).
		Msg("round finished")
	c.broadcast(game.KindWinner, c.winnerText(winners, commissions), result)
	c.roundID = ""
	c.archiveRound(result)
}

func (c *Coordinator) winnerText(winners []int64, commissions map[int64]decimal.Decimal) string {
	if len(winners) == 0 {
		return "round over, no winner"
	}
	names := make([]string, 0, len(winners))
	for _, id := range winners {
		name := fmt.Sprintf("#%d", id)
		if a, ok := c.agents.Get(id); ok {
			name = fmt.Sprintf("%s (#%d)", a.Name, id)
		}
		names = append(names, name)
	}
	best := commissions[winners[0]].StringFixed(2)
	if len(names) == 1 {
		return fmt.Sprintf("round over, winner %s with commission %s", names[0], best)
	}
	return fmt.Sprintf("round over, winners %s with commission %s", strings.Join(names, ", "), best)
}

func (c *Coordinator) archiveRound(r game.RoundResult) {
	if c.archive == nil || r.ID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RPCTimeout)
		defer cancel()
		if err := c.archive.RecordRound(ctx, r); err != nil {
			log.Error().Err(err).Str("round_id", r.ID).Msg("round archive failed")
		}
	}()
}
