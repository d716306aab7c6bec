package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"snake-arena-server/config"
	"snake-arena-server/server"
)

// NewRouter builds the HTTP ops surface: the /api routes plus the WebSocket
// game endpoint at /ws.
func NewRouter(cfg config.Config, session *server.Session) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Mount("/api", NewAPIRouter(cfg, session))
	r.Get("/ws", session.HandleWebSocket)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorJSON(w, http.StatusNotFound, "not found")
	})

	return r
}

// NewAPIRouter builds the /api router.
func NewAPIRouter(cfg config.Config, session Source) chi.Router {
	r := chi.NewRouter()

	mh := NewMetricsHandler(cfg, session)
	r.Route("/v1", func(sub chi.Router) {
		// Health
		sub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		mh.Routes(sub)
	})

	return r
}
