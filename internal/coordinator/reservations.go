package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/provider"
)

type legRPC func(ctx context.Context, uri string, req provider.LegRequest) error

type legCall struct {
	leg game.Leg
	uri string
}

var errProviderGone = errors.New("provider_gone")

func (c *Coordinator) submit(agentID int64, customerID int, legs []game.Leg) (*game.Reservation, error) {
	if c.state != game.StateRunning {
		return nil, ErrGameNotRunning
	}
	a, ok := c.agents.Get(agentID)
	if !ok {
		return nil, ErrAgentNotFound
	}
	if !a.Playing {
		return nil, ErrAgentNotPlaying
	}
	cust, ok := c.customers.Get(customerID)
	if !ok {
		return nil, ErrCustomerNotFound
	}
	canon := make([]game.Leg, 0, len(legs))
	for _, l := range legs {
		key, err := game.CanonicalPair(l.Pair)
		if err != nil {
			return nil, ErrInvalidItinerary
		}
		l.Pair = key
		canon = append(canon, l)
	}
	if err := game.ValidateItinerary(cust.Pair, canon); err != nil {
		return nil, ErrInvalidItinerary
	}
	for _, l := range canon {
		if c.inventory.Find(l.Pair, l.ProviderID, l.Cost) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrLegUnavailable, l.Pair)
		}
	}

	res := game.NewReservation(game.NewID(), agentID, customerID, canon, c.now())
	c.reservations.Add(res)
	log.Info().
		Str("reservation_id", res.ID).
		Int64("agent_id", agentID).
		Int("customer_id", customerID).
		Int("legs", len(canon)).
		Msg("reservation submitted")
	c.emit("reservation", res.Clone())
	c.fanOut(res, "try", c.client.Try, c.applyTry)
	return res, nil
}

// fanOut issues one call per leg concurrently. Each result is posted back to
// the timeline as soon as it arrives; the group wait only joins the batch.
func (c *Coordinator) fanOut(res *game.Reservation, op string, rpc legRPC, apply func(resID string, leg game.Leg, err error)) {
	resID := res.ID
	calls := make([]legCall, 0, len(res.Legs))
	for _, l := range res.Legs {
		p, ok := c.providers.Get(l.ProviderID)
		if !ok {
			leg := l
			go c.post(func() { apply(resID, leg, errProviderGone) })
			continue
		}
		calls = append(calls, legCall{leg: l, uri: p.URI})
	}
	if len(calls) == 0 {
		return
	}
	go func() {
		var g errgroup.Group
		g.SetLimit(c.cfg.RPCConcurrency)
		for _, lc := range calls {
			lc := lc
			g.Go(func() error {
				ctx, cancel := context.WithTimeout(c.ctx, c.cfg.RPCTimeout)
				defer cancel()
				metricProviderRPCTotal.Add(op, 1)
				err := rpc(ctx, lc.uri, provider.LegRequest{
					ReservationID: resID,
					Leg:           lc.leg.Pair,
					Cost:          lc.leg.Cost,
				})
				c.post(func() { apply(resID, lc.leg, err) })
				return err
			})
		}
		if err := g.Wait(); err != nil {
			log.Debug().Err(err).Str("reservation_id", resID).Str("op", op).Msg("leg fan-out had failures")
		}
	}()
}

func (c *Coordinator) noteLegResult(leg game.Leg, op string, err error) {
	if p, ok := c.providers.Get(leg.ProviderID); ok {
		c.recordRPC(p, op, err)
	}
}

func (c *Coordinator) applyTry(resID string, leg game.Leg, err error) {
	c.noteLegResult(leg, "try", err)
	res, ok := c.reservations.Get(resID)
	if !ok {
		return
	}
	if res.AckTry(leg.Pair, err) && res.Status == game.StatusCancelReady {
		log.Info().Err(err).Str("reservation_id", resID).Str("leg", leg.Pair).Msg("reservation try failed")
	}
}

func (c *Coordinator) applyConfirm(resID string, leg game.Leg, err error) {
	c.noteLegResult(leg, "confirm", err)
	res, ok := c.reservations.Get(resID)
	if !ok {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("reservation_id", resID).Str("leg", leg.Pair).Msg("confirm failed, counted as ack")
	}
	if res.AckPhase(game.StatusConfirming) {
		c.commit(res)
	}
}

func (c *Coordinator) applyCancel(resID string, leg game.Leg, err error) {
	c.noteLegResult(leg, "cancel", err)
	res, ok := c.reservations.Get(resID)
	if !ok {
		return
	}
	if res.AckPhase(game.StatusCancelling) {
		metricReservationCancelled.Add(1)
		log.Info().Str("reservation_id", res.ID).Str("failed_leg", res.FailedLeg).Msg("reservation cancelled")
		c.notifyReservation(res, fmt.Sprintf("reservation %s cancelled, leg %s failed: %s", res.ID, res.FailedLeg, res.FailReason))
	}
}

func (c *Coordinator) advanceReservations() {
	for _, res := range c.reservations.All() {
		switch res.Status {
		case game.StatusCancelReady:
			if res.BeginPhase(game.StatusCancelReady, game.StatusCancelling) {
				c.fanOut(res, "cancel", c.client.Cancel, c.applyCancel)
			}
		case game.StatusConfirmReady:
			if res.BeginPhase(game.StatusConfirmReady, game.StatusConfirming) {
				c.fanOut(res, "confirm", c.client.Confirm, c.applyConfirm)
			}
		}
	}
}

// commit applies a fully confirmed reservation: its offers leave the
// inventory, each provider is asked for a replacement, and scoring is redone.
func (c *Coordinator) commit(res *game.Reservation) {
	for _, l := range res.Legs {
		pos := c.inventory.Find(l.Pair, l.ProviderID, l.Cost)
		if pos < 0 {
			log.Warn().Str("reservation_id", res.ID).Str("leg", l.Pair).Msg("committed leg no longer in inventory")
			continue
		}
		offer, _ := c.inventory.Remove(l.Pair, pos)
		p, ok := c.providers.Get(l.ProviderID)
		if !ok {
			continue
		}
		p.ReleaseHeld(offer)
		c.requestOffers(p, 1, false)
	}
	if cust, ok := c.customers.Get(res.CustomerID); ok {
		cust.RecordCommit(res.AgentID, res.ID, res.Score())
	}
	c.recomputeCommissions()
	c.commits++
	metricReservationCommitted.Add(1)
	log.Info().
		Str("reservation_id", res.ID).
		Int64("agent_id", res.AgentID).
		Int("hops", res.TotalHops).
		Str("cost", res.TotalCost.String()).
		Msg("reservation committed")
	c.notifyReservation(res, fmt.Sprintf("reservation %s committed, %d hops, cost %s", res.ID, res.TotalHops, res.TotalCost.String()))
}

func (c *Coordinator) recomputeCommissions() {
	totals := c.commission.Commissions(c.customers.All())
	for _, a := range c.agents.All() {
		a.Commission = totals[a.ID]
	}
}

func (c *Coordinator) notifyReservation(res *game.Reservation, text string) {
	snap := res.Clone()
	c.mail.Send(res.AgentID, game.Message{
		Kind: game.KindReservation,
		From: "rc",
		Text: text,
		At:   c.now(),
		Data: snap,
	})
	c.emit("reservation", snap)
}
