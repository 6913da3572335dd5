package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitorGraceBeforeInactive(t *testing.T) {
	now := time.Unix(1000, 0)
	agents := NewAgents()
	providers := NewProviders()
	a := agents.Register("a", now)
	a.Playing = true
	m := NewMonitor(LivenessPolicy{StaleAfter: 3 * time.Second, GraceMisses: 2})

	later := now.Add(10 * time.Second)
	r := m.Check(agents, providers, later)
	assert.Empty(t, r.BadAgents)
	assert.Equal(t, 1, a.MissedPings)
	r = m.Check(agents, providers, later)
	assert.Empty(t, r.BadAgents)
	r = m.Check(agents, providers, later)
	assert.Equal(t, []int64{a.ID}, r.BadAgents)
	assert.Equal(t, []int64{a.ID}, r.PlayingBadAgents)
	assert.False(t, a.Active)
	assert.Equal(t, 0, r.HealthyPlayingAgents)
}

func TestMonitorFreshHeartbeatRevives(t *testing.T) {
	now := time.Unix(1000, 0)
	agents := NewAgents()
	providers := NewProviders()
	p := providers.Register("p", "http://p/", now)
	m := NewMonitor(LivenessPolicy{StaleAfter: time.Second})

	r := m.Check(agents, providers, now.Add(5*time.Second))
	assert.Equal(t, []int64{p.ID}, r.BadProviders)
	assert.Empty(t, r.PlayingBadProviders)

	p.LastPing = now.Add(5 * time.Second)
	r = m.Check(agents, providers, now.Add(5*time.Second))
	assert.Empty(t, r.BadProviders)
	assert.True(t, p.Active)
	assert.Equal(t, 0, p.MissedPings)
}

func TestMonitorCountsHealthyPlayingAgents(t *testing.T) {
	now := time.Unix(1000, 0)
	agents := NewAgents()
	for i := 0; i < 3; i++ {
		agents.Register("a", now).Playing = i != 0
	}
	r := NewMonitor(LivenessPolicy{}).Check(agents, NewProviders(), now)
	assert.Equal(t, 2, r.HealthyPlayingAgents)
}
