package httptransport

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/coordinator"
	"reservation-coordinator/internal/store"
)

// writeDomainError maps coordinator sentinels to a status and a stable code.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, coordinator.ErrAgentNotFound):
		WriteHTTPError(w, http.StatusNotFound, coordinator.ErrAgentNotFound.Error())
	case errors.Is(err, coordinator.ErrProviderNotFound):
		WriteHTTPError(w, http.StatusNotFound, coordinator.ErrProviderNotFound.Error())
	case errors.Is(err, coordinator.ErrCustomerNotFound):
		WriteHTTPError(w, http.StatusNotFound, coordinator.ErrCustomerNotFound.Error())
	case errors.Is(err, coordinator.ErrReservationNotFound):
		WriteHTTPError(w, http.StatusNotFound, coordinator.ErrReservationNotFound.Error())
	case errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "round_not_found")
	case errors.Is(err, coordinator.ErrGameNotRunning):
		WriteHTTPError(w, http.StatusConflict, coordinator.ErrGameNotRunning.Error())
	case errors.Is(err, coordinator.ErrAgentNotPlaying):
		WriteHTTPError(w, http.StatusConflict, coordinator.ErrAgentNotPlaying.Error())
	case errors.Is(err, coordinator.ErrLegUnavailable):
		WriteHTTPError(w, http.StatusConflict, coordinator.ErrLegUnavailable.Error())
	case errors.Is(err, coordinator.ErrInvalidItinerary):
		WriteHTTPError(w, http.StatusBadRequest, coordinator.ErrInvalidItinerary.Error())
	case errors.Is(err, coordinator.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, coordinator.ErrInvalidRequest.Error())
	case errors.Is(err, coordinator.ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteHTTPError(w, http.StatusServiceUnavailable, "unavailable")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected handler error")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
