package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"focus-starter/internal/handlers"
	"focus-starter/internal/middleware"
	"focus-starter/internal/websocket"
)

const banner = "Focus Starter API is running.\n"

func New(
	sessionHandler *handlers.SessionHandler,
	contentHandler *handlers.ContentHandler,
	healthHandler *handlers.HealthHandler,
	wsHub *websocket.Hub,
	rateLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(banner))
	})

	// Health check
	r.Get("/health", healthHandler.Health)

	r.Group(func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter.Middleware)
		}

		// ──── Session Ledger ────
		r.Post("/start-session", sessionHandler.StartSession)
		r.Post("/end-session", sessionHandler.EndSession)
		r.Get("/stats", sessionHandler.Stats)

		// ──── Ambient Content ────
		r.Route("/api", func(r chi.Router) {
			r.Get("/music", contentHandler.Music)
			r.Get("/quote", contentHandler.Quote)
		})
	})

	// ──── WebSocket ────
	if wsHub != nil {
		r.Get("/ws", wsHub.HandleWebSocket)
	}

	return r
}
