package coordinator

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/game"
)

// GameView is the public game snapshot.
type GameView struct {
	State          game.State `json:"state"`
	RoundID        string     `json:"round_id,omitempty"`
	Timer          int        `json:"timer"`
	ReadyCountdown int        `json:"ready_countdown"`
	Agents         int        `json:"agents"`
	Providers      int        `json:"providers"`
	Customers      int        `json:"customers"`
	Routes         int        `json:"routes"`
	Reservations   int        `json:"reservations"`
}

// AgentPing is returned to an agent heartbeat.
type AgentPing struct {
	State    game.State     `json:"state"`
	Timer    int            `json:"timer"`
	Playing  bool           `json:"playing"`
	Messages []game.Message `json:"messages"`
}

// ProviderPing is returned to a provider heartbeat.
type ProviderPing struct {
	State   game.State `json:"state"`
	Timer   int        `json:"timer"`
	Playing bool       `json:"playing"`
	Share   int        `json:"share"`
	Held    int        `json:"held"`
}

func (c *Coordinator) RegisterAgent(ctx context.Context, name string) (game.Agent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return game.Agent{}, ErrInvalidRequest
	}
	return call(ctx, c, func() (game.Agent, error) {
		a := c.agents.Register(name, c.now())
		c.mail.Ensure(a.ID)
		log.Info().Int64("agent_id", a.ID).Str("name", name).Msg("agent registered")
		c.broadcast(game.KindBroadcast, fmt.Sprintf("agent %s joined", name), map[string]any{"agent_id": a.ID})
		return *a, nil
	})
}

// PingAgent records a heartbeat and returns the agent's mailbox for seq.
func (c *Coordinator) PingAgent(ctx context.Context, id int64, seq int64) (AgentPing, error) {
	return call(ctx, c, func() (AgentPing, error) {
		a, ok := c.agents.Get(id)
		if !ok {
			return AgentPing{}, ErrAgentNotFound
		}
		a.LastPing = c.now()
		a.Active = true
		a.MissedPings = 0
		a.PingSeq = seq
		msgs := c.mail.Poll(id, seq)
		if msgs == nil {
			msgs = []game.Message{}
		}
		return AgentPing{State: c.state, Timer: c.timer, Playing: a.Playing, Messages: msgs}, nil
	})
}

func (c *Coordinator) SetReady(ctx context.Context, id int64) (game.Agent, error) {
	return call(ctx, c, func() (game.Agent, error) {
		a, ok := c.agents.Get(id)
		if !ok {
			return game.Agent{}, ErrAgentNotFound
		}
		if !a.Ready {
			a.Ready = true
			log.Info().Int64("agent_id", id).Msg("agent ready")
			c.broadcast(game.KindBroadcast, fmt.Sprintf("agent %s is ready", a.Name), map[string]any{"agent_id": id})
		}
		return *a, nil
	})
}

func (c *Coordinator) Chat(ctx context.Context, id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrInvalidRequest
	}
	_, err := call(ctx, c, func() (struct{}, error) {
		a, ok := c.agents.Get(id)
		if !ok {
			return struct{}{}, ErrAgentNotFound
		}
		c.mail.Broadcast(game.Message{Kind: game.KindChat, From: a.Name, Text: text, At: c.now()})
		c.emit(game.KindChat, map[string]any{"agent_id": id, "from": a.Name, "text": text})
		return struct{}{}, nil
	})
	return err
}

func (c *Coordinator) RegisterProvider(ctx context.Context, name, uri string) (game.Provider, error) {
	name = strings.TrimSpace(name)
	u, err := url.Parse(strings.TrimSpace(uri))
	if name == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return game.Provider{}, ErrInvalidRequest
	}
	return call(ctx, c, func() (game.Provider, error) {
		p := c.providers.Register(name, u.String(), c.now())
		log.Info().Int64("provider_id", p.ID).Str("name", name).Str("uri", p.URI).Msg("provider registered")
		c.broadcast(game.KindBroadcast, fmt.Sprintf("provider %s joined", name), map[string]any{"provider_id": p.ID})
		return p.Clone(), nil
	})
}

func (c *Coordinator) PingProvider(ctx context.Context, id int64) (ProviderPing, error) {
	return call(ctx, c, func() (ProviderPing, error) {
		p, ok := c.providers.Get(id)
		if !ok {
			return ProviderPing{}, ErrProviderNotFound
		}
		p.LastPing = c.now()
		p.Active = true
		p.MissedPings = 0
		p.ErrCount = 0
		return ProviderPing{
			State:   c.state,
			Timer:   c.timer,
			Playing: p.Playing,
			Share:   p.Share,
			Held:    len(p.HeldRoutes),
		}, nil
	})
}

// SubmitReservation validates the itinerary, starts the try phase and
// returns without waiting for any provider.
func (c *Coordinator) SubmitReservation(ctx context.Context, agentID int64, customerID int, legs []game.Leg) (game.Reservation, error) {
	metricReservationSubmitTotal.Add(1)
	if len(legs) == 0 {
		metricReservationSubmitErrors.Add(1)
		return game.Reservation{}, ErrInvalidItinerary
	}
	res, err := call(ctx, c, func() (game.Reservation, error) {
		r, err := c.submit(agentID, customerID, legs)
		if err != nil {
			return game.Reservation{}, err
		}
		return r.Clone(), nil
	})
	if err != nil {
		metricReservationSubmitErrors.Add(1)
	}
	return res, err
}

// Reset drops every participant and all round data. Ids keep counting.
func (c *Coordinator) Reset(ctx context.Context) error {
	return c.do(ctx, func() {
		c.agents.Clear()
		c.providers.Clear()
		c.inventory.Clear()
		c.customers.Clear()
		c.reservations.Clear()
		c.mail.Clear()
		c.roundID = ""
		c.timer = 0
		c.readyCountdown = -1
		c.readyDelay = 0
		c.setState(game.StateNotReady)
		c.emit("reset", nil)
		log.Info().Msg("game reset")
	})
}

func (c *Coordinator) Game(ctx context.Context) (GameView, error) {
	return call(ctx, c, func() (GameView, error) {
		return GameView{
			State:          c.state,
			RoundID:        c.roundID,
			Timer:          c.timer,
			ReadyCountdown: c.readyCountdown,
			Agents:         c.agents.Len(),
			Providers:      c.providers.Len(),
			Customers:      c.customers.Len(),
			Routes:         c.inventory.Len(),
			Reservations:   c.reservations.Len(),
		}, nil
	})
}

func (c *Coordinator) Agents(ctx context.Context) ([]game.Agent, error) {
	return call(ctx, c, func() ([]game.Agent, error) {
		all := c.agents.All()
		out := make([]game.Agent, 0, len(all))
		for _, a := range all {
			out = append(out, *a)
		}
		return out, nil
	})
}

func (c *Coordinator) Agent(ctx context.Context, id int64) (game.Agent, error) {
	return call(ctx, c, func() (game.Agent, error) {
		a, ok := c.agents.Get(id)
		if !ok {
			return game.Agent{}, ErrAgentNotFound
		}
		return *a, nil
	})
}

func (c *Coordinator) Providers(ctx context.Context) ([]game.Provider, error) {
	return call(ctx, c, func() ([]game.Provider, error) {
		all := c.providers.All()
		out := make([]game.Provider, 0, len(all))
		for _, p := range all {
			out = append(out, p.Clone())
		}
		return out, nil
	})
}

func (c *Coordinator) Customers(ctx context.Context) ([]game.Customer, error) {
	return call(ctx, c, func() ([]game.Customer, error) {
		all := c.customers.All()
		out := make([]game.Customer, 0, len(all))
		for _, cust := range all {
			out = append(out, cust.Clone())
		}
		return out, nil
	})
}

func (c *Coordinator) Customer(ctx context.Context, id int) (game.Customer, error) {
	return call(ctx, c, func() (game.Customer, error) {
		cust, ok := c.customers.Get(id)
		if !ok {
			return game.Customer{}, ErrCustomerNotFound
		}
		return cust.Clone(), nil
	})
}

func (c *Coordinator) Routes(ctx context.Context) (map[string][]game.LegOffer, error) {
	return call(ctx, c, func() (map[string][]game.LegOffer, error) {
		return c.inventory.Routes(), nil
	})
}

func (c *Coordinator) Reservations(ctx context.Context) ([]game.Reservation, error) {
	return call(ctx, c, func() ([]game.Reservation, error) {
		all := c.reservations.All()
		out := make([]game.Reservation, 0, len(all))
		for _, r := range all {
			out = append(out, r.Clone())
		}
		return out, nil
	})
}

func (c *Coordinator) Reservation(ctx context.Context, id string) (game.Reservation, error) {
	return call(ctx, c, func() (game.Reservation, error) {
		r, ok := c.reservations.Get(id)
		if !ok {
			return game.Reservation{}, ErrReservationNotFound
		}
		return r.Clone(), nil
	})
}
