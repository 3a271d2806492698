package models

import (
	"time"
)

// ProductRecord is one product discovered on a momo search result page.
// Records are built once during a page scan and never mutated afterwards.
type ProductRecord struct {
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	ModelNumber string `json:"model_number"`
	Price       string `json:"price"`
	SalesCount  string `json:"sales_count"`
	ProductURL  string `json:"product_url"`
}

// RunResult holds the outcome of one crawl run.
type RunResult struct {
	RunID          string          `json:"run_id"`
	Brand          string          `json:"brand"`
	Records        []ProductRecord `json:"records"`
	PagesWanted    int             `json:"pages_wanted"`
	PagesDone      int             `json:"pages_done"`
	SkippedAnchors int             `json:"skipped_anchors"`
	FailedPage     int             `json:"failed_page,omitempty"`
	Err            string          `json:"error,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
}

// Partial reports whether the run aborted before fetching every page.
func (r *RunResult) Partial() bool {
	return r.Err != ""
}

// Empty reports whether the run finished without finding any products.
func (r *RunResult) Empty() bool {
	return len(r.Records) == 0
}
