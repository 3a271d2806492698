package scraper

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momoscout/momo-brand-scraper/internal/models"
	"github.com/momoscout/momo-brand-scraper/internal/parser"
	"github.com/momoscout/momo-brand-scraper/internal/ratelimit"
)

// MaxPages is the upper bound on pages per run.
const MaxPages = 10

var (
	ErrEmptyBrand       = errors.New("brand name must not be empty")
	ErrInvalidPageCount = errors.New("page count must be between 1 and 10")
)

// Renderer is the browser collaborator. Render returns the fully rendered
// HTML of one search result page; Release gives back whatever page resource
// the renderer acquired for the run.
type Renderer interface {
	Render(ctx context.Context, brand string, page int) (string, error)
	Release()
}

// ProgressFunc receives (currentPage, totalPages) after every fetched page
// and a final (totalPages, totalPages) when the run ends, on every exit path.
type ProgressFunc func(current, total int)

// RecordSink is notified once per newly accepted record.
type RecordSink func(runID, id string, rec models.ProductRecord)

// BrandCrawler drives a run: page loop, extraction, dedup, progress.
type BrandCrawler struct {
	renderer Renderer
	parser   parser.Parser
	limiter  ratelimit.RateLimiter
	progress ProgressFunc
	sink     RecordSink
	logger   *slog.Logger
}

type CrawlerOption func(*BrandCrawler)

// WithProgress injects the progress reporting callback.
func WithProgress(fn ProgressFunc) CrawlerOption {
	return func(c *BrandCrawler) { c.progress = fn }
}

// WithRecordSink injects a per-record callback, called for accepted records
// only (after dedup).
func WithRecordSink(fn RecordSink) CrawlerOption {
	return func(c *BrandCrawler) { c.sink = fn }
}

// WithRateLimiter replaces the default politeness delay between pages.
func WithRateLimiter(l ratelimit.RateLimiter) CrawlerOption {
	return func(c *BrandCrawler) { c.limiter = l }
}

func NewBrandCrawler(r Renderer, p parser.Parser, opts ...CrawlerOption) *BrandCrawler {
	c := &BrandCrawler{
		renderer: r,
		parser:   p,
		limiter:  ratelimit.NewPolitenessLimiter(1*time.Second, 2*time.Second),
		logger:   slog.Default().With("component", "crawler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run fetches search result pages 1..maxPages for the brand sequentially and
// returns the deduplicated records in first-seen order.
//
// A page-level failure (render error, parse error, cancellation) aborts the
// run but keeps everything accumulated so far: the result carries both the
// partial record list and the error. Only invalid input returns a non-nil
// error, before any resource is touched. The renderer is released and final
// progress is reported on every exit path.
func (c *BrandCrawler) Run(ctx context.Context, brand string, maxPages int) (*models.RunResult, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, ErrEmptyBrand
	}
	if maxPages < 1 || maxPages > MaxPages {
		return nil, ErrInvalidPageCount
	}

	res := &models.RunResult{
		RunID:       uuid.NewString(),
		Brand:       brand,
		PagesWanted: maxPages,
		StartedAt:   time.Now(),
	}
	acc := NewAccumulator()

	defer func() {
		c.renderer.Release()
		c.reportProgress(maxPages, maxPages)
		res.Records = acc.Records()
		res.FinishedAt = time.Now()
	}()

	c.logger.Info("starting run", "run_id", res.RunID, "brand", brand, "pages", maxPages)

	for page := 1; page <= maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			c.failPage(res, page, err)
			break
		}

		html, err := c.renderer.Render(ctx, brand, page)
		if err != nil {
			c.failPage(res, page, err)
			break
		}

		records, skipped, err := c.parser.CollectRecords(html, brand)
		if err != nil {
			c.failPage(res, page, err)
			break
		}
		res.SkippedAnchors += skipped

		accepted := 0
		for _, rec := range records {
			id, ok := c.parser.ExtractIdentifier(rec.ProductURL)
			if !ok {
				continue
			}
			if acc.Offer(rec, id) {
				accepted++
				if c.sink != nil {
					c.sink(res.RunID, id, rec)
				}
			}
		}

		res.PagesDone = page
		c.logger.Info("page done",
			"page", page, "found", len(records), "accepted", accepted, "skipped", skipped)
		c.reportProgress(page, maxPages)
	}

	c.logger.Info("run finished",
		"run_id", res.RunID, "pages_done", res.PagesDone, "records", acc.Len(), "error", res.Err)

	return res, nil
}

func (c *BrandCrawler) failPage(res *models.RunResult, page int, err error) {
	c.logger.Error("run aborted", "page", page, "error", err)
	res.FailedPage = page
	res.Err = err.Error()
}

func (c *BrandCrawler) reportProgress(current, total int) {
	if c.progress != nil {
		c.progress(current, total)
	}
}
