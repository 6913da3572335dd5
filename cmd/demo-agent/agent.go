package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/coordinator"
	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/rcclient"
)

// rc is the slice of the coordinator API the agent uses.
type rc interface {
	RegisterAgent(ctx context.Context, name string) (int64, error)
	PingAgent(ctx context.Context, id, seq int64) (coordinator.AgentPing, error)
	Ready(ctx context.Context, id int64) error
	Customers(ctx context.Context) ([]game.Customer, error)
	Routes(ctx context.Context) (map[string][]game.LegOffer, error)
	SubmitReservation(ctx context.Context, agentID int64, customerID int, legs []game.Leg) (game.Reservation, error)
}

type agent struct {
	rc     rc
	name   string
	id     int64
	seq    int64
	state  game.State
	booked map[int]bool
}

func newAgent(client rc, name string) *agent {
	return &agent{rc: client, name: name, booked: map[int]bool{}}
}

// step runs one heartbeat: register if needed, acknowledge the previous
// mailbox batch, ready up between rounds and book while playing.
func (a *agent) step(ctx context.Context) {
	if a.id == 0 {
		id, err := a.rc.RegisterAgent(ctx, a.name)
		if err != nil {
			log.Warn().Err(err).Msg("register failed")
			return
		}
		a.id, a.seq = id, 0
		log.Info().Int64("agent_id", id).Msg("registered")
	}

	ping, err := a.rc.PingAgent(ctx, a.id, a.seq)
	if rcclient.IsNotFound(err) {
		log.Warn().Int64("agent_id", a.id).Msg("forgotten by coordinator")
		a.id = 0
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("ping failed")
		return
	}
	if len(ping.Messages) > 0 {
		for _, m := range ping.Messages {
			log.Info().Str("kind", m.Kind).Str("from", m.From).Msg(m.Text)
		}
		// next ping acknowledges this batch
		a.seq++
	}

	if ping.State != a.state {
		log.Info().Str("state", string(ping.State)).Int("timer", ping.Timer).Msg("state changed")
		if ping.State == game.StatePending {
			a.booked = map[int]bool{}
		}
		a.state = ping.State
	}

	switch {
	case ping.State == game.StateNotReady:
		if err := a.rc.Ready(ctx, a.id); err != nil {
			log.Warn().Err(err).Msg("ready failed")
		}
	case ping.State == game.StateRunning && ping.Playing:
		a.book(ctx)
	}
}

func (a *agent) book(ctx context.Context) {
	custs, err := a.rc.Customers(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("list customers failed")
		return
	}
	routes, err := a.rc.Routes(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("list routes failed")
		return
	}
	for _, c := range custs {
		if a.booked[c.ID] {
			continue
		}
		leg, ok := cheapestDirect(routes, c.Pair)
		if !ok {
			continue
		}
		res, err := a.rc.SubmitReservation(ctx, a.id, c.ID, []game.Leg{leg})
		if err != nil {
			log.Warn().Err(err).Int("customer_id", c.ID).Msg("submit failed")
			continue
		}
		a.booked[c.ID] = true
		log.Info().Str("reservation_id", res.ID).Int("customer_id", c.ID).Str("cost", leg.Cost.String()).Msg("reservation submitted")
	}
}

func cheapestDirect(routes map[string][]game.LegOffer, pair string) (game.Leg, bool) {
	offers := routes[pair]
	if len(offers) == 0 {
		return game.Leg{}, false
	}
	best := offers[0]
	for _, o := range offers[1:] {
		if o.Cost.LessThan(best.Cost) {
			best = o
		}
	}
	return game.Leg{Pair: best.Pair, ProviderID: best.ProviderID, Cost: best.Cost}, true
}
