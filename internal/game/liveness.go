package game

import "time"

// LivenessPolicy decides when a participant counts as stale. An entity that
// misses a heartbeat window is only marked inactive once its consecutive
// miss count exceeds GraceMisses.
type LivenessPolicy struct {
	StaleAfter  time.Duration
	GraceMisses int
}

// LivenessReport lists inactive participants after one observation pass.
type LivenessReport struct {
	BadAgents            []int64
	BadProviders         []int64
	PlayingBadAgents     []int64
	PlayingBadProviders  []int64
	HealthyPlayingAgents int
}

// Monitor classifies agents and providers from their last heartbeat.
type Monitor struct {
	policy LivenessPolicy
}

func NewMonitor(policy LivenessPolicy) *Monitor {
	if policy.StaleAfter <= 0 {
		policy.StaleAfter = 3 * time.Second
	}
	if policy.GraceMisses < 0 {
		policy.GraceMisses = 0
	}
	return &Monitor{policy: policy}
}

// Check updates Active and MissedPings in place and reports the bad sets.
// It must run once per tick; every call counts as one observation.
func (m *Monitor) Check(agents *Agents, providers *Providers, now time.Time) LivenessReport {
	var r LivenessReport
	for _, a := range agents.All() {
		a.Active, a.MissedPings = m.observe(a.Active, a.MissedPings, a.LastPing, now)
		if a.Active {
			if a.Playing {
				r.HealthyPlayingAgents++
			}
			continue
		}
		r.BadAgents = append(r.BadAgents, a.ID)
		if a.Playing {
			r.PlayingBadAgents = append(r.PlayingBadAgents, a.ID)
		}
	}
	for _, p := range providers.All() {
		p.Active, p.MissedPings = m.observe(p.Active, p.MissedPings, p.LastPing, now)
		if p.Active {
			continue
		}
		r.BadProviders = append(r.BadProviders, p.ID)
		if p.Playing {
			r.PlayingBadProviders = append(r.PlayingBadProviders, p.ID)
		}
	}
	return r
}

func (m *Monitor) observe(active bool, missed int, last, now time.Time) (bool, int) {
	if now.Sub(last) <= m.policy.StaleAfter {
		return true, 0
	}
	missed++
	if missed > m.policy.GraceMisses {
		return false, missed
	}
	return active, missed
}
