package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/momoscout/momo-brand-scraper/internal/database"
	"github.com/momoscout/momo-brand-scraper/internal/export"
	"github.com/momoscout/momo-brand-scraper/internal/models"
	"github.com/momoscout/momo-brand-scraper/internal/scraper"
)

// Runner starts one crawl run. Implemented by scraper.BrandCrawler.
type Runner interface {
	Run(ctx context.Context, brand string, maxPages int) (*models.RunResult, error)
}

// RunStore persists and reads back finished runs. Implemented by database.DB.
type RunStore interface {
	SaveRun(ctx context.Context, res *models.RunResult) error
	GetRun(ctx context.Context, runID string) (*models.RunResult, error)
	ListRuns(ctx context.Context, limit int) ([]models.RunResult, error)
}

type Handlers struct {
	runner       Runner
	store        RunStore
	defaultPages int
	logger       *slog.Logger

	// One browser session backs the runner, runs are serialized.
	mu sync.Mutex
}

func NewHandlers(runner Runner, store RunStore, defaultPages int, logger *slog.Logger) *Handlers {
	return &Handlers{
		runner:       runner,
		store:        store,
		defaultPages: defaultPages,
		logger:       logger,
	}
}

// ScrapeRequest is the body for POST /api/v1/scrape.
type ScrapeRequest struct {
	Brand    string `json:"brand"`
	MaxPages int    `json:"max_pages"`
}

// ScrapeResponse summarizes a finished run.
type ScrapeResponse struct {
	RunID       string                 `json:"run_id"`
	Brand       string                 `json:"brand"`
	PagesDone   int                    `json:"pages_done"`
	PagesWanted int                    `json:"pages_wanted"`
	RecordCount int                    `json:"record_count"`
	Partial     bool                   `json:"partial"`
	Error       string                 `json:"error,omitempty"`
	Records     []models.ProductRecord `json:"records"`
}

// Scrape runs a crawl for the requested brand and returns the record table.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.MaxPages == 0 {
		req.MaxPages = h.defaultPages
	}

	h.mu.Lock()
	res, err := h.runner.Run(r.Context(), req.Brand, req.MaxPages)
	h.mu.Unlock()
	if err != nil {
		switch {
		case errors.Is(err, scraper.ErrEmptyBrand), errors.Is(err, scraper.ErrInvalidPageCount):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("scrape failed", "error", err)
			h.respondError(w, http.StatusInternalServerError, "scrape failed")
		}
		return
	}

	if h.store != nil {
		if err := h.store.SaveRun(r.Context(), res); err != nil {
			h.logger.Error("failed to persist run", "run_id", res.RunID, "error", err)
		}
	}

	h.respondJSON(w, http.StatusOK, ScrapeResponse{
		RunID:       res.RunID,
		Brand:       res.Brand,
		PagesDone:   res.PagesDone,
		PagesWanted: res.PagesWanted,
		RecordCount: len(res.Records),
		Partial:     res.Partial(),
		Error:       res.Err,
		Records:     res.Records,
	})
}

// GetRun returns one persisted run with its records.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	res, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

// ListRuns returns recent runs without records.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.respondError(w, http.StatusNotFound, "run storage is not configured")
		return
	}

	runs, err := h.store.ListRuns(r.Context(), 50)
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	h.respondJSON(w, http.StatusOK, runs)
}

// ExportRun streams one persisted run as a CSV download.
func (h *Handlers) ExportRun(w http.ResponseWriter, r *http.Request) {
	res, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	if len(res.Records) == 0 {
		h.respondError(w, http.StatusNotFound, "run has no records to export")
		return
	}

	filename := export.Filename(res.Brand, time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteCSV(w, res.Records); err != nil {
		h.logger.Error("failed to write csv export", "run_id", res.RunID, "error", err)
	}
}

// Health is the liveness endpoint.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) loadRun(w http.ResponseWriter, r *http.Request) (*models.RunResult, bool) {
	if h.store == nil {
		h.respondError(w, http.StatusNotFound, "run storage is not configured")
		return nil, false
	}

	runID := chi.URLParam(r, "runID")
	if runID == "" {
		h.respondError(w, http.StatusBadRequest, "run ID is required")
		return nil, false
	}

	res, err := h.store.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			h.respondError(w, http.StatusNotFound, "run not found")
		} else {
			h.logger.Error("failed to load run", "run_id", runID, "error", err)
			h.respondError(w, http.StatusInternalServerError, "failed to load run")
		}
		return nil, false
	}

	return res, true
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
