package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/momoscout/momo-brand-scraper/internal/browser"
	"github.com/momoscout/momo-brand-scraper/internal/parser"
	"github.com/playwright-community/playwright-go"
)

// searchPath is momo's keyword search endpoint. chessboardType keeps the
// results in the grid layout the extraction selectors are written against.
const searchPath = "/search/searchShop.jsp"

// SearchURL builds the search result URL for one brand and page index.
func SearchURL(brand string, page int) string {
	return fmt.Sprintf("%s%s?keyword=%s&searchType=1&curPage=%d&_isFuzzy=0&showType=chessboardType",
		parser.SiteOrigin, searchPath, url.QueryEscape(brand), page)
}

// MomoRenderer renders search result pages through a headless browser. It
// acquires a single browser page lazily on first use and holds it for the
// whole run; Release must be called when the run ends.
type MomoRenderer struct {
	browser *browser.Browser
	page    playwright.Page
	logger  *slog.Logger

	scrollSteps  int
	scrollSettle time.Duration
	loadSettle   time.Duration
}

func NewMomoRenderer(b *browser.Browser) *MomoRenderer {
	return &MomoRenderer{
		browser:      b,
		logger:       slog.Default().With("component", "renderer"),
		scrollSteps:  5,
		scrollSettle: 500 * time.Millisecond,
		loadSettle:   1 * time.Second,
	}
}

// Render navigates to the search page, scrolls to trigger the lazy-loaded
// product tiles, and returns the rendered HTML.
func (r *MomoRenderer) Render(ctx context.Context, brand string, pageNum int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if r.page == nil {
		page, err := r.browser.NewPage()
		if err != nil {
			return "", fmt.Errorf("failed to acquire browser page: %w", err)
		}
		r.page = page
	}

	target := SearchURL(brand, pageNum)
	r.logger.Debug("rendering page", "page", pageNum, "url", target)

	if err := r.browser.NavigateWithRetry(r.page, target, 3); err != nil {
		return "", fmt.Errorf("failed to render page %d: %w", pageNum, err)
	}
	time.Sleep(r.loadSettle)

	// Product tiles below the fold only load as they scroll into view.
	for i := 0; i < r.scrollSteps; i++ {
		if _, err := r.page.Evaluate("window.scrollBy(0, 1000)"); err != nil {
			r.logger.Warn("scroll failed", "page", pageNum, "error", err)
			break
		}
		time.Sleep(r.scrollSettle)
	}

	html, err := r.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// Release closes the browser page acquired for the run. The browser itself
// stays open, it belongs to the caller.
func (r *MomoRenderer) Release() {
	if r.page != nil {
		if err := r.page.Close(); err != nil {
			r.logger.Warn("failed to close page", "error", err)
		}
		r.page = nil
	}
}
