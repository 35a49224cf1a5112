// Package server exposes the thin REST wrapper over the execution store:
// routing, auth middleware, and rate limiting around the core lifecycle
// operations.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/campaign"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/execution"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/generator"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/schedule"
)

// Handler serves the campaign execution surface.
type Handler struct {
	store    *execution.Store
	library  *campaign.Library
	registry *generator.Registry
	logger   *slog.Logger
}

func NewHandler(store *execution.Store, library *campaign.Library, registry *generator.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, library: library, registry: registry, logger: logger}
}

type startRequest struct {
	CampaignID string `json:"campaign_id"`
	Speed      string `json:"speed"`
	DryRun     bool   `json:"dry_run"`
	Seed       int64  `json:"seed,omitempty"`
}

type startResponse struct {
	ExecutionID string `json:"execution_id"`
}

// StartExecution handles POST /api/v1/executions.
func (h *Handler) StartExecution(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CampaignID == "" {
		writeError(w, http.StatusBadRequest, "campaign_id is required")
		return
	}

	speed, err := schedule.ParseSpeed(req.Speed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.store.Start(req.CampaignID, execution.Options{
		Speed:  speed,
		DryRun: req.DryRun,
		Seed:   req.Seed,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, execution.ErrCampaignNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "execution started",
		slog.String("execution_id", id),
		slog.String("campaign", req.CampaignID),
	)
	writeJSON(w, http.StatusAccepted, startResponse{ExecutionID: id})
}

// ExecutionStatus handles GET /api/v1/executions/{id}.
func (h *Handler) ExecutionStatus(w http.ResponseWriter, r *http.Request) {
	info, err := h.store.Status(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ListExecutions handles GET /api/v1/executions.
func (h *Handler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"executions": h.store.List()})
}

// StopExecution handles POST /api/v1/executions/{id}/stop.
func (h *Handler) StopExecution(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Stop(id); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, execution.ErrNotRunning) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"execution_id": id, "stop": "requested"})
}

// ExecutionResults handles GET /api/v1/executions/{id}/results.
func (h *Handler) ExecutionResults(w http.ResponseWriter, r *http.Request) {
	includeEvents := r.URL.Query().Get("include_events") == "true"
	results, err := h.store.Results(r.PathValue("id"), includeEvents)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// ListCampaigns handles GET /api/v1/campaigns.
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	type campaignSummary struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Severity    string   `json:"severity"`
		Techniques  []string `json:"techniques"`
		Phases      int      `json:"phases"`
		EventBudget int      `json:"event_budget"`
		Duration    string   `json:"duration"`
	}

	var out []campaignSummary
	for _, c := range h.library.List() {
		out = append(out, campaignSummary{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Severity:    c.Severity,
			Techniques:  c.Techniques,
			Phases:      len(c.Phases),
			EventBudget: c.TotalBudget(),
			Duration:    c.TotalDuration().String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"campaigns": out})
}

// ListGenerators handles GET /api/v1/generators.
func (h *Handler) ListGenerators(w http.ResponseWriter, r *http.Request) {
	type generatorSummary struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		SourceType  string `json:"sourcetype"`
		Index       string `json:"index"`
	}

	var out []generatorSummary
	for _, id := range h.registry.List() {
		gen, _ := h.registry.Get(id)
		out = append(out, generatorSummary{
			ID:          gen.Name(),
			Description: gen.Description(),
			SourceType:  gen.SourceType(),
			Index:       gen.Index(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"generators": out})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
