package coordinator

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/game"
)

// tick runs one coordination step. The evaluators run in a fixed order and
// share one liveness observation.
func (c *Coordinator) tick() {
	metricTicksTotal.Add(1)
	now := c.now()
	report := c.monitor.Check(c.agents, c.providers, now)

	c.evalReadiness()
	c.evalPending()
	wasDisconnected := c.state == game.StateDisconnected
	c.evalDisconnect(report)
	// the tick that pauses the round does not count toward the reconnect timeout
	if wasDisconnected {
		c.evalReconnect(report)
	}
	c.cleanup(report)
	c.advanceReservations()
}

func (c *Coordinator) evalReadiness() {
	switch c.state {
	case game.StateNotReady:
		ready, notReady := c.readyCounts()
		if ready == 0 {
			c.readyCountdown = -1
			return
		}
		if c.readyCountdown < 0 {
			c.readyCountdown = c.cfg.ReadyCountdownTicks
		} else if c.readyCountdown > 0 {
			c.readyCountdown--
		}
		if notReady > 0 && c.readyCountdown > 0 {
			return
		}
		if !c.providersHealthy() {
			return
		}
		c.readyCountdown = -1
		c.readyDelay = c.cfg.ReadyDelayTicks
		c.setState(game.StateReady)
		c.broadcast(game.KindState, fmt.Sprintf("game ready, round starts in %d ticks", c.readyDelay), nil)
	case game.StateReady:
		if ready, _ := c.readyCounts(); ready == 0 {
			c.setState(game.StateNotReady)
			return
		}
		if c.readyDelay > 0 {
			c.readyDelay--
			if c.readyDelay > 0 {
				return
			}
		}
		c.startRound()
	}
}

func (c *Coordinator) readyCounts() (ready, notReady int) {
	for _, a := range c.agents.All() {
		if !a.Active {
			continue
		}
		if a.Ready {
			ready++
		} else {
			notReady++
		}
	}
	return ready, notReady
}

// providersHealthy requires at least one active provider and no recent
// RPC errors on any of them.
func (c *Coordinator) providersHealthy() bool {
	active := 0
	for _, p := range c.providers.All() {
		if !p.Active {
			continue
		}
		if !p.Healthy() {
			return false
		}
		active++
	}
	return active > 0
}

func (c *Coordinator) evalPending() {
	if c.state != game.StatePending {
		return
	}
	c.pendingTicks++
	if c.inventoryLoaded() {
		c.setState(game.StateRunning)
		c.broadcast(game.KindState, fmt.Sprintf("round %s running, %d ticks", c.roundID, c.timer), nil)
		return
	}
	if c.cfg.PendingTimeoutTicks > 0 && c.pendingTicks >= c.cfg.PendingTimeoutTicks {
		log.Warn().Str("round_id", c.roundID).Int("pending_ticks", c.pendingTicks).Msg("round did not start in time")
		c.finishRound(game.EndAborted)
	}
}

func (c *Coordinator) inventoryLoaded() bool {
	if c.customers.Len() != c.cfg.CustsToGen {
		return false
	}
	playing := 0
	for _, p := range c.providers.All() {
		if !p.Playing {
			continue
		}
		playing++
		if len(p.HeldRoutes) != p.Share {
			return false
		}
	}
	return playing > 0
}

func (c *Coordinator) evalDisconnect(r game.LivenessReport) {
	if c.state != game.StateRunning {
		return
	}
	if len(r.PlayingBadProviders) > 0 || r.HealthyPlayingAgents == 0 {
		log.Warn().
			Ints64("bad_providers", r.PlayingBadProviders).
			Int("healthy_agents", r.HealthyPlayingAgents).
			Msg("round disconnected")
		c.reconnectTicks = 0
		c.setState(game.StateDisconnected)
		c.broadcast(game.KindState, "round paused, waiting for participants", nil)
		return
	}
	c.timer--
	if c.timer <= 0 {
		c.timer = 0
		c.finishRound(game.EndTimeout)
	}
}

func (c *Coordinator) evalReconnect(r game.LivenessReport) {
	if c.state != game.StateDisconnected {
		return
	}
	if len(r.PlayingBadProviders) == 0 && r.HealthyPlayingAgents > 0 {
		c.setState(game.StateRunning)
		c.broadcast(game.KindState, "round resumed", nil)
		return
	}
	c.reconnectTicks++
	if c.reconnectTicks >= c.cfg.ReconnectTimeoutTicks {
		c.timer = 0
		c.broadcast(game.KindState, "round terminated, participants did not reconnect", nil)
		c.finishRound(game.EndDisconnected)
	}
}

// cleanup removes stale entities once their deletion grace has passed.
// Playing agents survive until the round ends; providers are only removed
// between rounds.
func (c *Coordinator) cleanup(r game.LivenessReport) {
	now := c.now()
	for _, id := range r.BadAgents {
		a, ok := c.agents.Get(id)
		if !ok || now.Sub(a.LastPing) <= c.cfg.AgentDeleteAfter {
			continue
		}
		if c.state != game.StateNotReady && a.Playing {
			continue
		}
		c.agents.Delete(id)
		c.mail.Remove(id)
		log.Info().Int64("agent_id", id).Msg("stale agent removed")
		c.broadcast(game.KindBroadcast, fmt.Sprintf("agent %s left", a.Name), map[string]any{"agent_id": id})
	}
	if c.state != game.StateNotReady {
		return
	}
	for _, id := range r.BadProviders {
		p, ok := c.providers.Get(id)
		if !ok || now.Sub(p.LastPing) <= c.cfg.ProviderDeleteAfter {
			continue
		}
		c.providers.Delete(id)
		log.Info().Int64("provider_id", id).Msg("stale provider removed")
		c.broadcast(game.KindBroadcast, fmt.Sprintf("provider %s left", p.Name), map[string]any{"provider_id": id})
	}
}
