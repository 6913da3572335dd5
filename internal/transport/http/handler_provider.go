package httptransport

import (
	"encoding/json"
	"net/http"

	"reservation-coordinator/internal/coordinator"
)

type ProviderHandlers struct {
	coord *coordinator.Coordinator
}

func NewProviderHandlers(coord *coordinator.Coordinator) *ProviderHandlers {
	return &ProviderHandlers{coord: coord}
}

func (h *ProviderHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.coord.Providers(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *ProviderHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
			URI  string `json:"uri"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		p, err := h.coord.RegisterProvider(r.Context(), body.Name, body.URI)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": p.ID})
	}
}

func (h *ProviderHandlers) Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricProviderPingTotal.Add(1)
		id, ok := int64Param(r, "id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_id")
			return
		}
		resp, err := h.coord.PingProvider(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
