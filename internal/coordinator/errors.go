package coordinator

import "errors"

var (
	ErrAgentNotFound       = errors.New("agent_not_found")
	ErrProviderNotFound    = errors.New("provider_not_found")
	ErrCustomerNotFound    = errors.New("customer_not_found")
	ErrReservationNotFound = errors.New("reservation_not_found")
	ErrGameNotRunning      = errors.New("game_not_running")
	ErrAgentNotPlaying     = errors.New("agent_not_playing")
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrInvalidItinerary    = errors.New("invalid_itinerary")
	ErrLegUnavailable      = errors.New("leg_unavailable")
	ErrTooManyCustomers    = errors.New("too_many_customers")
	ErrStopped             = errors.New("coordinator_stopped")
)
