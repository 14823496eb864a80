// Package api serves the game state over HTTP. GET endpoints are public
// read-only views; POST endpoints mutate the game and require a bearer
// token. The engine is single-threaded, so every handler takes the server
// mutex before touching it.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/talgya/underwriters/internal/engine"
	"github.com/talgya/underwriters/internal/persistence"
)

// Server exposes one game over HTTP.
type Server struct {
	Game     *engine.Game
	DB       *persistence.DB // Optional; enables save-on-turn
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	mu sync.Mutex
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	// Public read-only views.
	r.HandleFunc("/api/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/market", s.handleMarket).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/economy", s.handleEconomy).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/portfolio", s.handlePortfolio).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/reports", s.handleReports).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/competitors/{line}", s.handleCompetitors).Methods(http.MethodGet)

	// Game operations.
	r.HandleFunc("/api/v1/turn", s.adminOnly(s.handleEndTurn)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/trade", s.adminOnly(s.handleTrade)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/premium", s.adminOnly(s.handlePremium)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/advertising", s.adminOnly(s.handleAdvertising)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/unlock", s.adminOnly(s.handleUnlock)).Methods(http.MethodPost)

	return r
}

// ListenAndServe starts the server and blocks.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")
	return http.ListenAndServe(addr, s.Router())
}

// adminOnly rejects POST requests without the configured bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
