package httptransport

import (
	"encoding/json"
	"net/http"

	"reservation-coordinator/internal/coordinator"
	"reservation-coordinator/internal/game"
)

type AgentHandlers struct {
	coord *coordinator.Coordinator
}

func NewAgentHandlers(coord *coordinator.Coordinator) *AgentHandlers {
	return &AgentHandlers{coord: coord}
}

func (h *AgentHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.coord.Agents(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *AgentHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		a, err := h.coord.RegisterAgent(r.Context(), body.Name)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": a.ID, "name": a.Name})
	}
}

func (h *AgentHandlers) Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricAgentPingTotal.Add(1)
		id, ok := int64Param(r, "id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_id")
			return
		}
		seq, ok := seqParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_seq")
			return
		}
		resp, err := h.coord.PingAgent(r.Context(), id, seq)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AgentHandlers) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := int64Param(r, "id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_id")
			return
		}
		a, err := h.coord.SetReady(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func (h *AgentHandlers) Chat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := int64Param(r, "id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_id")
			return
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.coord.Chat(r.Context(), id, body.Message); err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

type reservationRequest struct {
	AgentID    int64      `json:"agent_id"`
	CustomerID int        `json:"customer_id"`
	Legs       []game.Leg `json:"legs"`
}

// SubmitReservation answers 202 once the try phase has started. Agents poll
// the reservation or their mailbox for the outcome.
func (h *AgentHandlers) SubmitReservation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body reservationRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		res, err := h.coord.SubmitReservation(r.Context(), body.AgentID, body.CustomerID, body.Legs)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, res)
	}
}
