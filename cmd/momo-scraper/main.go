package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/momoscout/momo-brand-scraper/internal/browser"
	"github.com/momoscout/momo-brand-scraper/internal/config"
	"github.com/momoscout/momo-brand-scraper/internal/export"
	"github.com/momoscout/momo-brand-scraper/internal/parser"
	"github.com/momoscout/momo-brand-scraper/internal/ratelimit"
	"github.com/momoscout/momo-brand-scraper/internal/scraper"
)

func main() {
	var (
		brand    = flag.String("brand", "", "brand name to search for")
		pages    = flag.Int("pages", 0, "number of result pages to fetch (1-10)")
		output   = flag.String("output", "", "output CSV file (default <brand>_momo_<timestamp>.csv)")
		headless = flag.Bool("headless", true, "run browser in headless mode")
	)
	flag.Parse()

	if *brand == "" {
		fmt.Fprintln(os.Stderr, "Please provide a brand name with -brand")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if *pages == 0 {
		*pages = cfg.Scraper.DefaultPages
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = *headless && cfg.Browser.Headless
	browserOpts.Timeout = cfg.Browser.Timeout
	browserOpts.ViewportWidth = cfg.Browser.ViewportWidth
	browserOpts.ViewportHeight = cfg.Browser.ViewportHeight
	browserOpts.AcceptLanguage = cfg.Browser.AcceptLanguage
	browserOpts.TimezoneID = cfg.Browser.TimezoneID
	browserOpts.Locale = cfg.Browser.Locale
	if cfg.Browser.UserAgent != "" {
		browserOpts.UserAgent = cfg.Browser.UserAgent
	}

	b, err := browser.New(browserOpts)
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	bar := progressbar.NewOptions(*pages,
		progressbar.OptionSetDescription(fmt.Sprintf("scraping %s", *brand)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
	)

	crawler := scraper.NewBrandCrawler(
		scraper.NewMomoRenderer(b),
		parser.NewMomoParser(),
		scraper.WithRateLimiter(ratelimit.NewPolitenessLimiter(cfg.Scraper.RateLimitMin, cfg.Scraper.RateLimitMax)),
		scraper.WithProgress(func(current, total int) {
			bar.Set(current)
		}),
	)

	res, err := crawler.Run(ctx, *brand, *pages)
	if err != nil {
		logger.Error("invalid run parameters", "error", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr)

	if res.Err != "" {
		logger.Warn("run aborted early, keeping partial results",
			"failed_page", res.FailedPage, "error", res.Err)
	}

	if res.Empty() {
		logger.Info("no products found, nothing to export", "brand", *brand)
		return
	}

	filename := *output
	if filename == "" {
		filename = export.Filename(*brand, time.Now())
	}

	if err := export.WriteFile(filename, res.Records); err != nil {
		logger.Error("failed to write export", "file", filename, "error", err)
		os.Exit(1)
	}

	logger.Info("export written",
		"file", filename, "records", len(res.Records), "pages", res.PagesDone, "run_id", res.RunID)
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
