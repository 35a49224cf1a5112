package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/middleware"
)

// NewRouter constructs a ServeMux with the campaign execution surface
// registered. Health and metrics stay unauthenticated; everything under
// /api/v1 requires a bearer token when auth is configured.
func NewRouter(h *Handler, auth *middleware.AuthMiddleware, limiter middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/executions", auth.RequireAuth(h.StartExecution))
	mux.HandleFunc("GET /api/v1/executions", auth.RequireAuth(h.ListExecutions))
	mux.HandleFunc("GET /api/v1/executions/{id}", auth.RequireAuth(h.ExecutionStatus))
	mux.HandleFunc("POST /api/v1/executions/{id}/stop", auth.RequireAuth(h.StopExecution))
	mux.HandleFunc("GET /api/v1/executions/{id}/results", auth.RequireAuth(h.ExecutionResults))

	mux.HandleFunc("GET /api/v1/campaigns", auth.RequireAuth(h.ListCampaigns))
	mux.HandleFunc("GET /api/v1/generators", auth.RequireAuth(h.ListGenerators))

	// Health endpoints
	mux.HandleFunc("GET /healthz", h.Health)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	limited := middleware.RateLimit(limiter)(mux)
	return middleware.RequestID(limited)
}
