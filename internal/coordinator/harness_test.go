package coordinator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"reservation-coordinator/internal/config"
	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/stream"
	"reservation-coordinator/internal/testutil"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		CustsToGen:            1,
		RoutesToGen:           24,
		RoundTicks:            20,
		TickEvery:             time.Second,
		ReadyDelayTicks:       0,
		ReadyCountdownTicks:   3,
		ReconnectTimeoutTicks: 3,
		PendingTimeoutTicks:   5,
		PingStaleAfter:        3 * time.Second,
		MissedPingGrace:       0,
		AgentDeleteAfter:      10 * time.Second,
		ProviderDeleteAfter:   10 * time.Second,
		CommissionRatio:       decimal.RequireFromString("0.1"),
		RebookPenalty:         decimal.NewFromInt(5),
		RPCTimeout:            100 * time.Millisecond,
		RPCConcurrency:        4,
		Cities:                "AB",
		MailboxMax:            100,
	}
}

type harness struct {
	t      *testing.T
	ctx    context.Context
	c      *Coordinator
	clock  *fakeClock
	prov   *testutil.ProviderStub
	events *stream.Buffer
	ticks  chan time.Time
}

func newHarness(t *testing.T, prov *testutil.ProviderStub, mutate func(*config.GameConfig)) *harness {
	t.Helper()
	cfg := testGameConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	events := stream.NewBuffer(200)
	c, err := New(cfg, prov,
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(7))),
		WithEvents(events),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Time)
	go c.run(ctx, ticks)
	t.Cleanup(func() {
		cancel()
		<-c.done
	})
	return &harness{t: t, ctx: ctx, c: c, clock: clock, prov: prov, events: events, ticks: ticks}
}

func (h *harness) tick() {
	h.t.Helper()
	h.ticks <- h.clock.Now()
	// an empty op orders the caller after the tick
	require.NoError(h.t, h.c.do(h.ctx, func() {}))
}

func (h *harness) game() GameView {
	h.t.Helper()
	g, err := h.c.Game(h.ctx)
	require.NoError(h.t, err)
	return g
}

func (h *harness) eventually(cond func() bool, msg string) {
	h.t.Helper()
	require.Eventually(h.t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func (h *harness) register(agents int) (game.Provider, []game.Agent) {
	h.t.Helper()
	p, err := h.c.RegisterProvider(h.ctx, "prov", "http://prov.test/")
	require.NoError(h.t, err)
	var out []game.Agent
	for i := 0; i < agents; i++ {
		a, err := h.c.RegisterAgent(h.ctx, fmt.Sprintf("agent-%d", i+1))
		require.NoError(h.t, err)
		out = append(out, a)
	}
	return p, out
}

// startRound readies every agent and ticks until the round is Running.
func (h *harness) startRound(agents []game.Agent) {
	h.t.Helper()
	for _, a := range agents {
		_, err := h.c.SetReady(h.ctx, a.ID)
		require.NoError(h.t, err)
	}
	h.tick()
	require.Equal(h.t, game.StateReady, h.game().State)
	h.tick()
	require.Equal(h.t, game.StatePending, h.game().State)
	want := h.c.cfg.RoutesToGen
	h.eventually(func() bool { return h.game().Routes == want }, "provider reset never ingested")
	h.tick()
	require.Equal(h.t, game.StateRunning, h.game().State)
}

// heartbeat refreshes the given agents and the provider.
func (h *harness) heartbeat(providerID int64, agents ...game.Agent) {
	h.t.Helper()
	if providerID > 0 {
		_, err := h.c.PingProvider(h.ctx, providerID)
		require.NoError(h.t, err)
	}
	// agents are touched directly so their mailbox sequence is left alone
	require.NoError(h.t, h.c.do(h.ctx, func() {
		for _, a := range agents {
			if ag, ok := h.c.agents.Get(a.ID); ok {
				ag.LastPing = h.c.now()
			}
		}
	}))
}

func (h *harness) reservation(id string) game.Reservation {
	h.t.Helper()
	r, err := h.c.Reservation(h.ctx, id)
	require.NoError(h.t, err)
	return r
}

func (h *harness) firstOffer(pair string) game.LegOffer {
	h.t.Helper()
	routes, err := h.c.Routes(h.ctx)
	require.NoError(h.t, err)
	require.NotEmpty(h.t, routes[pair], "no offers for %s", pair)
	return routes[pair][0]
}

func legOf(o game.LegOffer) game.Leg {
	return game.Leg{Pair: o.Pair, ProviderID: o.ProviderID, Cost: o.Cost}
}
