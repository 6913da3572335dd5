package game

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Agent struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	LastPing    time.Time       `json:"last_ping_time"`
	Active      bool            `json:"active"`
	Ready       bool            `json:"ready"`
	Playing     bool            `json:"playing"`
	Commission  decimal.Decimal `json:"commission"`
	PingSeq     int64           `json:"ping_seq"`
	MissedPings int             `json:"missed_pings"`
}

type Provider struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	URI         string     `json:"uri"`
	LastPing    time.Time  `json:"last_ping_time"`
	Active      bool       `json:"active"`
	Playing     bool       `json:"playing"`
	MissedPings int        `json:"missed_pings"`
	ErrCount    int        `json:"err_count"`
	Share       int        `json:"share"`
	HeldRoutes  []LegOffer `json:"held_routes"`
}

// Healthy reports whether the provider is reachable and has had no RPC
// errors or missed heartbeats since its last good signal.
func (p *Provider) Healthy() bool {
	return p.Active && p.MissedPings == 0 && p.ErrCount == 0
}

// ReleaseHeld drops the first held offer equal to o.
func (p *Provider) ReleaseHeld(o LegOffer) bool {
	for i, h := range p.HeldRoutes {
		if h.Equal(o) {
			p.HeldRoutes = append(p.HeldRoutes[:i], p.HeldRoutes[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Provider) Clone() Provider {
	out := *p
	out.HeldRoutes = append([]LegOffer(nil), p.HeldRoutes...)
	return out
}

// Agents is the agent registry. Ids are never reused, even across Clear.
type Agents struct {
	byID   map[int64]*Agent
	nextID int64
}

func NewAgents() *Agents {
	return &Agents{byID: map[int64]*Agent{}, nextID: 1}
}

func (s *Agents) Register(name string, now time.Time) *Agent {
	id := s.nextID
	s.nextID++
	a := &Agent{ID: id, Name: name, LastPing: now, Active: true}
	s.byID[id] = a
	return a
}

func (s *Agents) Get(id int64) (*Agent, bool) {
	a, ok := s.byID[id]
	return a, ok
}

func (s *Agents) Delete(id int64) {
	delete(s.byID, id)
}

func (s *Agents) Len() int {
	return len(s.byID)
}

// All returns the agents ordered by id.
func (s *Agents) All() []*Agent {
	out := make([]*Agent, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Agents) Clear() {
	s.byID = map[int64]*Agent{}
}

// Providers is the provider registry. Ids are never reused, even across Clear.
type Providers struct {
	byID   map[int64]*Provider
	nextID int64
}

func NewProviders() *Providers {
	return &Providers{byID: map[int64]*Provider{}, nextID: 1}
}

func (s *Providers) Register(name, uri string, now time.Time) *Provider {
	id := s.nextID
	s.nextID++
	p := &Provider{ID: id, Name: name, URI: uri, LastPing: now, Active: true}
	s.byID[id] = p
	return p
}

func (s *Providers) Get(id int64) (*Provider, bool) {
	p, ok := s.byID[id]
	return p, ok
}

func (s *Providers) Delete(id int64) {
	delete(s.byID, id)
}

func (s *Providers) Len() int {
	return len(s.byID)
}

// All returns the providers ordered by id.
func (s *Providers) All() []*Provider {
	out := make([]*Provider, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Providers) Clear() {
	s.byID = map[int64]*Provider{}
}
