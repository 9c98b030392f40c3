// Package server assembles the HTTP routes of the bot service.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Proton-105/p2p-exchange-bot/internal/lifecycle"
	"github.com/Proton-105/p2p-exchange-bot/internal/middleware"
	"github.com/Proton-105/p2p-exchange-bot/pkg/config"
	"github.com/Proton-105/p2p-exchange-bot/pkg/logger"
	"github.com/Proton-105/p2p-exchange-bot/pkg/metrics"
)

// NewRouter mounts the webhook endpoint and the operational routes.
// The webhook path accepts every method; the handler itself answers OPTIONS and rejects the rest.
func NewRouter(cfg config.ServerConfig, webhook http.Handler, probes lifecycle.HealthChecker, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.Middleware)
	r.Use(chimw.RealIP)
	r.Use(middleware.New(log))
	r.Use(chimw.Recoverer)

	r.Handle(cfg.WebhookPath, webhook)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := probes.Liveness(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		components, err := probes.Readiness(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "components": components})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "components": components})
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
