package game

import (
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	// agents and providers exchange plain JSON numbers for costs
	decimal.MarshalJSONWithoutQuotes = true
}

type State string

const (
	StateNotReady     State = "NotReady"
	StateReady        State = "Ready"
	StatePending      State = "Pending"
	StateRunning      State = "Running"
	StateDisconnected State = "Disconnected"
)

// EndReason explains why a round returned to NotReady.
type EndReason string

const (
	EndTimeout      EndReason = "timeout"
	EndDisconnected EndReason = "disconnected"
	EndAborted      EndReason = "aborted"
)

var (
	ErrInvalidPair       = errors.New("invalid_pair")
	ErrTooManyCustomers  = errors.New("too_many_customers")
	ErrInvalidItinerary  = errors.New("invalid_itinerary")
	ErrIllegalTransition = errors.New("illegal_transition")
)
