package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fortuna/portal/internal/scrape"
	"github.com/gorilla/mux"
)

// ScrapeService is the part of scrape.Service the REST layer needs
type ScrapeService interface {
	Enqueue(ctx context.Context, req scrape.Request) (*scrape.Job, error)
	Get(id string) (*scrape.Job, error)
	GetStatus(ctx context.Context) (*scrape.StatusSummary, error)
}

// ScrapeHandler proxies API calls to the scrape service.
type ScrapeHandler struct {
	service ScrapeService
}

// NewScrapeHandler wires the REST layer to the scrape service.
func NewScrapeHandler(service ScrapeService) *ScrapeHandler {
	return &ScrapeHandler{service: service}
}

// HandleScrapeRequest handles POST /api/v1/scrape
func (h *ScrapeHandler) HandleScrapeRequest(w http.ResponseWriter, r *http.Request) {
	var req scrape.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	job, err := h.service.Enqueue(r.Context(), req)
	if err != nil {
		respondServiceError(w, "Failed to enqueue scrape job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job": job,
	})
}

// HandleScrapeStatus handles GET /api/v1/scrape/status
func (h *ScrapeHandler) HandleScrapeStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetStatus(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch status", err)
		return
	}

	respondJSON(w, http.StatusOK, buildStatusPayload(summary))
}

// HandleScrapeJob handles GET /api/v1/scrape/jobs/{jobID}
func (h *ScrapeHandler) HandleScrapeJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Get(mux.Vars(r)["jobID"])
	if err != nil {
		respondServiceError(w, "Failed to fetch scrape job", err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

func buildStatusPayload(summary *scrape.StatusSummary) map[string]interface{} {
	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
		"history": summary.History,
		// cross-site merge counters since startup
		"reconciliation": summary.Reconciliation,
	}

	if job := summary.ActiveJob; job != nil {
		response["status"] = job.Status
		if job.StatusMessage != "" {
			response["message"] = job.StatusMessage
		}
		response["active_job"] = job
	}

	if summary.History == nil {
		response["history"] = []*scrape.Job{}
	}
	return response
}
