// Package coordinator runs the game on a single timeline. A lone goroutine
// owns every registry; public operations and RPC completions are queued onto
// it as closures and never run concurrently with a tick.
package coordinator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/config"
	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/provider"
	"reservation-coordinator/internal/stream"
)

// ProviderClient performs the outbound provider protocol.
type ProviderClient interface {
	Reset(ctx context.Context, uri string, n int) ([]game.LegOffer, error)
	Add(ctx context.Context, uri string, n int) ([]game.LegOffer, error)
	Try(ctx context.Context, uri string, req provider.LegRequest) error
	Confirm(ctx context.Context, uri string, req provider.LegRequest) error
	Cancel(ctx context.Context, uri string, req provider.LegRequest) error
}

// RoundArchive stores finished round results.
type RoundArchive interface {
	RecordRound(ctx context.Context, r game.RoundResult) error
}

type Option func(*Coordinator)

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

func WithArchive(a RoundArchive) Option {
	return func(c *Coordinator) { c.archive = a }
}

func WithEvents(b *stream.Buffer) Option {
	return func(c *Coordinator) { c.events = b }
}

type Coordinator struct {
	cfg     config.GameConfig
	cities  []string
	client  ProviderClient
	archive RoundArchive
	events  *stream.Buffer
	now     func() time.Time
	rng     *rand.Rand

	ops  chan func()
	done chan struct{}
	ctx  context.Context

	// owned by the timeline goroutine
	state        game.State
	agents       *game.Agents
	providers    *game.Providers
	inventory    *game.Inventory
	customers    *game.Customers
	reservations *game.Reservations
	mail         *game.Mailboxes
	monitor      *game.Monitor
	commission   game.CommissionPolicy

	roundID        string
	roundStart     time.Time
	timer          int
	readyCountdown int
	readyDelay     int
	pendingTicks   int
	reconnectTicks int
	commits        int
}

// New validates cfg and builds an idle coordinator; call Run to start it.
func New(cfg config.GameConfig, client ProviderClient, opts ...Option) (*Coordinator, error) {
	cities := cfg.CityList()
	if n := len(cities); cfg.CustsToGen < 0 || cfg.CustsToGen > n*(n-1)/2 {
		return nil, fmt.Errorf("%w: %d customers from %d cities", ErrTooManyCustomers, cfg.CustsToGen, n)
	}
	c := &Coordinator{
		cfg:    cfg,
		cities: cities,
		client: client,
		now:    time.Now,
		ops:    make(chan func(), 256),
		done:   make(chan struct{}),
		ctx:    context.Background(),

		state:        game.StateNotReady,
		agents:       game.NewAgents(),
		providers:    game.NewProviders(),
		inventory:    game.NewInventory(),
		customers:    game.NewCustomers(),
		reservations: game.NewReservations(),
		mail:         game.NewMailboxes(cfg.MailboxMax),
		monitor: game.NewMonitor(game.LivenessPolicy{
			StaleAfter:  cfg.PingStaleAfter,
			GraceMisses: cfg.MissedPingGrace,
		}),
		commission: game.CommissionPolicy{
			Ratio:   cfg.CommissionRatio,
			Penalty: cfg.RebookPenalty,
		},
		readyCountdown: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.cfg.RPCTimeout <= 0 {
		c.cfg.RPCTimeout = 5 * time.Second
	}
	if c.cfg.RPCConcurrency <= 0 {
		c.cfg.RPCConcurrency = 16
	}
	return c, nil
}

// Run drives the timeline at the configured tick interval until ctx ends.
func (c *Coordinator) Run(ctx context.Context) {
	every := c.cfg.TickEvery
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	c.run(ctx, ticker.C)
}

func (c *Coordinator) run(ctx context.Context, ticks <-chan time.Time) {
	c.ctx = ctx
	defer close(c.done)
	log.Info().Dur("tick", c.cfg.TickEvery).Msg("coordinator started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("coordinator stopped")
			return
		case <-ticks:
			c.tick()
		case fn := <-c.ops:
			fn()
		}
	}
}

// do runs fn on the timeline and waits for it.
func (c *Coordinator) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case c.ops <- func() { fn(); close(finished) }:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}
}

// post queues fn from an RPC goroutine without waiting for it.
func (c *Coordinator) post(fn func()) {
	select {
	case c.ops <- fn:
	case <-c.done:
	}
}

func call[T any](ctx context.Context, c *Coordinator, fn func() (T, error)) (T, error) {
	var (
		out T
		err error
	)
	if doErr := c.do(ctx, func() { out, err = fn() }); doErr != nil {
		var zero T
		return zero, doErr
	}
	return out, err
}

func (c *Coordinator) setState(next game.State) {
	if c.state == next {
		return
	}
	log.Info().Str("from", string(c.state)).Str("to", string(next)).Str("round_id", c.roundID).Msg("game state changed")
	metricStateTransitions.Add(string(next), 1)
	c.state = next
	c.emit("game_state", map[string]any{"state": next, "timer": c.timer})
}

func (c *Coordinator) broadcast(kind, text string, data any) {
	c.mail.Broadcast(game.Message{Kind: kind, From: "rc", Text: text, At: c.now(), Data: data})
	c.emit(kind, map[string]any{"text": text, "data": data})
}

func (c *Coordinator) emit(event string, data any) {
	if c.events == nil {
		return
	}
	c.events.Append(event, c.roundID, data)
}
