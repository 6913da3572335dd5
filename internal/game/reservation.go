package game

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	StatusTrying       ReservationStatus = "Trying"
	StatusConfirmReady ReservationStatus = "ConfirmReady"
	StatusConfirming   ReservationStatus = "Confirming"
	StatusCommitted    ReservationStatus = "Committed"
	StatusCancelReady  ReservationStatus = "CancelReady"
	StatusCancelling   ReservationStatus = "Cancelling"
	StatusCancelled    ReservationStatus = "Cancelled"
)

var transitions = map[ReservationStatus][]ReservationStatus{
	StatusTrying:       {StatusConfirmReady, StatusCancelReady},
	StatusConfirmReady: {StatusConfirming},
	StatusConfirming:   {StatusCommitted},
	StatusCancelReady:  {StatusCancelling},
	StatusCancelling:   {StatusCancelled},
}

func (s ReservationStatus) Terminal() bool {
	return s == StatusCommitted || s == StatusCancelled
}

func canTransition(from, to ReservationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Leg is one leg of a submitted itinerary. Pair doubles as the leg key.
type Leg struct {
	Pair       string          `json:"pair"`
	ProviderID int64           `json:"provider_id"`
	Cost       decimal.Decimal `json:"cost"`
}

type Reservation struct {
	ID          string            `json:"id"`
	AgentID     int64             `json:"agent_id"`
	CustomerID  int               `json:"customer_id"`
	Legs        []Leg             `json:"legs"`
	Status      ReservationStatus `json:"status"`
	PendingAcks int               `json:"pending_ack_count"`
	TotalCost   decimal.Decimal   `json:"total_cost"`
	TotalHops   int               `json:"total_hops"`
	FailedLeg   string            `json:"failed_leg,omitempty"`
	FailReason  string            `json:"fail_reason,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewReservation(id string, agentID int64, customerID int, legs []Leg, now time.Time) *Reservation {
	total := decimal.Zero
	for _, l := range legs {
		total = total.Add(l.Cost)
	}
	return &Reservation{
		ID:          id,
		AgentID:     agentID,
		CustomerID:  customerID,
		Legs:        append([]Leg(nil), legs...),
		Status:      StatusTrying,
		PendingAcks: len(legs),
		TotalCost:   total,
		TotalHops:   len(legs),
		CreatedAt:   now,
	}
}

func (r *Reservation) Score() Score {
	return Score{Hops: r.TotalHops, Cost: r.TotalCost}
}

// Transition moves the reservation from -> to. It is a no-op returning false
// when the current status is not from or the edge does not exist.
func (r *Reservation) Transition(from, to ReservationStatus) bool {
	if r.Status != from || !canTransition(from, to) {
		return false
	}
	r.Status = to
	return true
}

// AckTry applies one try-phase result. Results arriving after the
// reservation has left Trying are ignored. A failure cancels immediately.
func (r *Reservation) AckTry(leg string, err error) bool {
	if r.Status != StatusTrying {
		return false
	}
	if err != nil {
		r.FailedLeg = leg
		r.FailReason = err.Error()
		return r.Transition(StatusTrying, StatusCancelReady)
	}
	r.PendingAcks--
	if r.PendingAcks <= 0 {
		r.PendingAcks = 0
		return r.Transition(StatusTrying, StatusConfirmReady)
	}
	return false
}

// BeginPhase starts the confirm or cancel fan-out, resetting the ack count.
func (r *Reservation) BeginPhase(from, to ReservationStatus) bool {
	if !r.Transition(from, to) {
		return false
	}
	r.PendingAcks = len(r.Legs)
	return true
}

// AckPhase counts one confirm or cancel acknowledgement. It returns true when
// the last ack moved the reservation to its terminal status.
func (r *Reservation) AckPhase(phase ReservationStatus) bool {
	if r.Status != phase {
		return false
	}
	r.PendingAcks--
	if r.PendingAcks > 0 {
		return false
	}
	r.PendingAcks = 0
	switch phase {
	case StatusConfirming:
		return r.Transition(StatusConfirming, StatusCommitted)
	case StatusCancelling:
		return r.Transition(StatusCancelling, StatusCancelled)
	}
	return false
}

func (r *Reservation) Clone() Reservation {
	out := *r
	out.Legs = append([]Leg(nil), r.Legs...)
	return out
}

// ValidateItinerary checks that legs form a contiguous path between the
// customer's endpoints, in either direction, without repeating a pair.
func ValidateItinerary(customerPair string, legs []Leg) error {
	cp, err := ParsePair(customerPair)
	if err != nil || len(legs) == 0 {
		return ErrInvalidItinerary
	}
	if walk(cp.A, cp.B, legs) || walk(cp.B, cp.A, legs) {
		return nil
	}
	return ErrInvalidItinerary
}

func walk(from, to string, legs []Leg) bool {
	seen := map[string]bool{}
	at := from
	for _, l := range legs {
		p, err := ParsePair(l.Pair)
		if err != nil || seen[p.String()] {
			return false
		}
		seen[p.String()] = true
		next, ok := p.Other(at)
		if !ok {
			return false
		}
		at = next
	}
	return at == to
}

// Reservations keeps every reservation of the round in submission order.
type Reservations struct {
	byID  map[string]*Reservation
	order []string
}

func NewReservations() *Reservations {
	return &Reservations{byID: map[string]*Reservation{}}
}

func (s *Reservations) Add(r *Reservation) {
	s.byID[r.ID] = r
	s.order = append(s.order, r.ID)
}

func (s *Reservations) Get(id string) (*Reservation, bool) {
	r, ok := s.byID[id]
	return r, ok
}

func (s *Reservations) All() []*Reservation {
	out := make([]*Reservation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *Reservations) Len() int {
	return len(s.order)
}

func (s *Reservations) Clear() {
	s.byID = map[string]*Reservation{}
	s.order = nil
}
