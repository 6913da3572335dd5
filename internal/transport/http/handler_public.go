package httptransport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"reservation-coordinator/internal/coordinator"
	"reservation-coordinator/internal/game"
)

// RoundStore reads archived rounds. Nil when no database is configured.
type RoundStore interface {
	ListRounds(ctx context.Context, limit, offset int) ([]game.RoundResult, error)
	GetRound(ctx context.Context, id string) (game.RoundResult, error)
	Ping(ctx context.Context) error
}

type PublicHandlers struct {
	coord  *coordinator.Coordinator
	rounds RoundStore
}

func NewPublicHandlers(coord *coordinator.Coordinator, rounds RoundStore) *PublicHandlers {
	return &PublicHandlers{coord: coord, rounds: rounds}
}

func (h *PublicHandlers) Game() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := h.coord.Game(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func (h *PublicHandlers) Customers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.coord.Customers(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *PublicHandlers) Customer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_id")
			return
		}
		c, err := h.coord.Customer(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func (h *PublicHandlers) Routes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes, err := h.coord.Routes(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, routes)
	}
}

func (h *PublicHandlers) Reservations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.coord.Reservations(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *PublicHandlers) Reservation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.coord.Reservation(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *PublicHandlers) Rounds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.rounds == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "archive_disabled")
			return
		}
		metricRoundQueryTotal.Add(1)
		limit, offset := ParsePagination(r)
		items, err := h.rounds.ListRounds(r.Context(), limit, offset)
		if err != nil {
			metricRoundQueryErrors.Add(1)
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func (h *PublicHandlers) Round() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.rounds == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "archive_disabled")
			return
		}
		metricRoundQueryTotal.Add(1)
		round, err := h.rounds.GetRound(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			metricRoundQueryErrors.Add(1)
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, round)
	}
}
