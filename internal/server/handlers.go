package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ShayCichocki/scenguard/internal/store"
)

type handler struct {
	deps Dependencies
}

func newHandler(deps Dependencies) *handler {
	return &handler{deps: deps}
}

// Healthz reports whether the server is up.
func (h *handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// GetReport returns the most recent full report.
func (h *handler) GetReport(w http.ResponseWriter, r *http.Request) {
	if h.deps.Reports == nil {
		http.Error(w, "no report store configured", http.StatusNotFound)
		return
	}

	report, err := h.deps.Reports.LatestReport()
	if err != nil {
		if errors.Is(err, store.ErrNoReports) {
			http.Error(w, "no report available", http.StatusNotFound)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load report")
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, report)
}

// GetSummary returns only the summary of the most recent report.
func (h *handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.deps.Reports == nil {
		http.Error(w, "no report store configured", http.StatusNotFound)
		return
	}

	report, err := h.deps.Reports.LatestReport()
	if err != nil {
		if errors.Is(err, store.ErrNoReports) {
			http.Error(w, "no report available", http.StatusNotFound)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load summary")
		http.Error(w, "failed to load summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, report.Summary)
}

// ListPolicies returns every registered resource policy.
func (h *handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.deps.Registry.All())
}

type validateRequest struct {
	// Resources restricts the run to the named resources. Empty means
	// every registered resource.
	Resources []string `json:"resources"`
}

// Validate triggers a fresh validation run and returns its report.
func (h *handler) Validate(w http.ResponseWriter, r *http.Request) {
	if h.deps.Validator == nil {
		http.Error(w, "validation is not enabled on this server", http.StatusNotImplemented)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.deps.Validator.Validate(r.Context(), req.Resources)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("validation run failed")
		http.Error(w, "validation run failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, report)
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
