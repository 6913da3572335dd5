package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/config"
	"reservation-coordinator/internal/coordinator"
	"reservation-coordinator/internal/mcpserver"
	"reservation-coordinator/internal/stream"
)

// NewRouter wires the public API, the MCP endpoint and the admin group.
// rounds may be nil when the archive is disabled.
func NewRouter(cfg config.ServerConfig, coord *coordinator.Coordinator, events *stream.Buffer, rounds RoundStore) *chi.Mux {
	mcpSrv := mcpserver.New(coord)

	agentHandlers := NewAgentHandlers(coord)
	providerHandlers := NewProviderHandlers(coord)
	publicHandlers := NewPublicHandlers(coord, rounds)
	adminHandlers := NewAdminHandlers(coord, rounds)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
	})
	r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", mcpSrv.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(CORSMiddleware(cfg.CORSAllowOrigin))
		r.Use(APILogMiddleware())

		r.Get("/game", publicHandlers.Game())
		r.Get("/customers", publicHandlers.Customers())
		r.Get("/customers/{id}", publicHandlers.Customer())
		r.Get("/routes", publicHandlers.Routes())
		r.Get("/reservations", publicHandlers.Reservations())
		r.Get("/reservations/{id}", publicHandlers.Reservation())
		r.Get("/rounds", publicHandlers.Rounds())
		r.Get("/rounds/{id}", publicHandlers.Round())
		r.Get("/events", EventsSSEHandler(events))

		r.Get("/agents", agentHandlers.List())
		r.Post("/agents", agentHandlers.Register())
		r.Put("/agents/{id}/ping", agentHandlers.Ping())
		r.Put("/agents/{id}/ready", agentHandlers.Ready())
		r.Post("/agents/{id}/chat", agentHandlers.Chat())
		r.Post("/reservations", agentHandlers.SubmitReservation())

		r.Get("/providers", providerHandlers.List())
		r.Post("/providers", providerHandlers.Register())
		r.Put("/providers/{id}/ping", providerHandlers.Ping())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.With(BodyCaptureMiddleware(4096)).Delete("/game", adminHandlers.Reset())

			r.Route("/debug", func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Get("/vars", expvar.Handler().ServeHTTP)
			})
		})
	})

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	} else {
		log.Warn().Str("path", cfg.StaticDir).Msg("static directory not found; skipping catch-all static route")
	}
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
