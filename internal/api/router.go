package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/knockout/internal/api/handler"
	"github.com/mcoot/knockout/internal/api/middleware"
	"github.com/mcoot/knockout/internal/services/auth"
	"github.com/mcoot/knockout/internal/storage"
	"github.com/mcoot/knockout/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Knockout    handler.Knockout
	Storage     storage.Storage
	Hub         *sse.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	knockoutHandler := handler.NewKnockoutHandler(cfg.Knockout, cfg.Storage)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)

	// Create middleware
	authMiddleware := middleware.BridgeAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Host relay routes
	api.Handle("/callbacks", authMiddleware(http.HandlerFunc(knockoutHandler.Callback))).Methods(http.MethodPost)
	api.Handle("/relay/events", authMiddleware(http.HandlerFunc(eventsHandler.Relay))).Methods(http.MethodGet)

	// Read-only routes
	api.HandleFunc("/knockout", knockoutHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/knockouts", knockoutHandler.ListResults).Methods(http.MethodGet)
	api.HandleFunc("/knockouts/{id}", knockoutHandler.GetResult).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", knockoutHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
