package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/provider"
)

type offer struct {
	Pair string          `json:"pair"`
	Cost decimal.Decimal `json:"cost"`
}

// fleet is the demo provider's inventory. Legs that passed try are held until
// confirm or cancel.
type fleet struct {
	mu       sync.Mutex
	rng      *rand.Rand
	cities   []string
	maxCost  int
	failRate float64
	held     map[string]provider.LegRequest
}

func newFleet(cities []string, maxCost int, failRate float64, rng *rand.Rand) *fleet {
	if maxCost < 1 {
		maxCost = 1
	}
	return &fleet{
		rng:      rng,
		cities:   cities,
		maxCost:  maxCost,
		failRate: failRate,
		held:     map[string]provider.LegRequest{},
	}
}

func (f *fleet) offers(n int) []offer {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]offer, 0, n)
	for len(out) < n && len(f.cities) > 1 {
		i, j := f.rng.Intn(len(f.cities)), f.rng.Intn(len(f.cities))
		p, err := game.NewPair(f.cities[i], f.cities[j])
		if err != nil {
			continue
		}
		cents := 100 + f.rng.Int63n(int64(f.maxCost)*100)
		out = append(out, offer{Pair: p.String(), Cost: decimal.New(cents, -2)})
	}
	return out
}

func (f *fleet) try(req provider.LegRequest) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rng.Float64() < f.failRate {
		return false
	}
	f.held[req.ReservationID+"/"+req.Leg] = req
	return true
}

func (f *fleet) release(req provider.LegRequest) {
	f.mu.Lock()
	delete(f.held, req.ReservationID+"/"+req.Leg)
	f.mu.Unlock()
}

func (f *fleet) router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Post("/reset", f.handleOffers("reset"))
	r.Post("/add", f.handleOffers("add"))
	r.Post("/try", f.handleLeg("try"))
	r.Post("/confirm", f.handleLeg("confirm"))
	r.Post("/cancel", f.handleLeg("cancel"))
	return r
}

func (f *fleet) handleOffers(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("n"))
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_n")
			return
		}
		if op == "reset" {
			f.mu.Lock()
			f.held = map[string]provider.LegRequest{}
			f.mu.Unlock()
		}
		log.Info().Str("op", op).Int("n", n).Msg("offers requested")
		writeJSONBody(w, http.StatusOK, f.offers(n))
	}
}

func (f *fleet) handleLeg(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req provider.LegRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReservationID == "" || req.Leg == "" {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		logger := log.With().Str("op", op).Str("reservation_id", req.ReservationID).Str("leg", req.Leg).Logger()
		switch op {
		case "try":
			if !f.try(req) {
				logger.Info().Msg("leg refused")
				writeError(w, http.StatusConflict, "unavailable")
				return
			}
		default:
			f.release(req)
		}
		logger.Info().Msg("leg handled")
		writeJSONBody(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func writeJSONBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSONBody(w, status, map[string]any{"error": code})
}
