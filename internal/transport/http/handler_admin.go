package httptransport

import (
	"net/http"

	"reservation-coordinator/internal/coordinator"
)

type AdminHandlers struct {
	coord  *coordinator.Coordinator
	rounds RoundStore
}

func NewAdminHandlers(coord *coordinator.Coordinator, rounds RoundStore) *AdminHandlers {
	return &AdminHandlers{coord: coord, rounds: rounds}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := h.coord.Game(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "game": "down"})
			return
		}
		db := "disabled"
		if h.rounds != nil {
			db = "up"
			if err := h.rounds.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "state": g.State, "db": "down"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "state": g.State, "db": db})
	}
}

func (h *AdminHandlers) Reset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.coord.Reset(r.Context()); err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
