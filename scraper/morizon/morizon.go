// Package morizon crawls morizon.pl search results: it discovers every results
// page, collects listing summaries, then enriches each listing from its own
// detail page.
package morizon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"morizon-scraper/models"
	"morizon-scraper/scraper/fetch"
	"morizon-scraper/services"
	"morizon-scraper/utils"
)

// Options control pool sizes and phase deadlines.
type Options struct {
	ListingWorkers int
	DetailWorkers  int
	ListingTimeout time.Duration
	DetailTimeout  time.Duration
}

// DefaultOptions returns 8 listing workers, 16 detail workers and 60s / 300s
// phase deadlines.
func DefaultOptions() Options {
	return Options{
		ListingWorkers: 8,
		DetailWorkers:  16,
		ListingTimeout: 60 * time.Second,
		DetailTimeout:  300 * time.Second,
	}
}

// Scraper runs the two-phase crawl.
type Scraper struct {
	opts    Options
	fetcher fetch.Fetcher
	cleaner *services.Cleaner
	logger  *utils.Logger
}

// New creates a Scraper. fetcher is normally a *fetch.CachedFetcher.
func New(opts Options, fetcher fetch.Fetcher, cleaner *services.Cleaner, logger *utils.Logger) *Scraper {
	def := DefaultOptions()
	if opts.ListingWorkers < 1 {
		opts.ListingWorkers = def.ListingWorkers
	}
	if opts.DetailWorkers < 1 {
		opts.DetailWorkers = def.DetailWorkers
	}
	if opts.ListingTimeout <= 0 {
		opts.ListingTimeout = def.ListingTimeout
	}
	if opts.DetailTimeout <= 0 {
		opts.DetailTimeout = def.DetailTimeout
	}
	return &Scraper{opts: opts, fetcher: fetcher, cleaner: cleaner, logger: logger}
}

// PageURL appends the page parameter to a results URL.
func PageURL(baseURL string, page int) string {
	sep := "&"
	if !strings.Contains(baseURL, "?") {
		sep = "?"
	}
	return fmt.Sprintf("%s%spage=%d", baseURL, sep, page)
}

// Scrape crawls every results page reachable from baseURL and returns the
// enriched listings. Pages or listings that fail, or that are still running
// when a phase deadline passes, are left out or left partially filled; only a
// failure to read the first page is returned as an error.
func (s *Scraper) Scrape(ctx context.Context, baseURL string) ([]*models.Result, error) {
	doc, err := s.document(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("first page: %w", err)
	}
	pages, err := PageCount(doc, baseURL)
	if err != nil {
		return nil, fmt.Errorf("first page: %w", err)
	}
	s.logger.Info("[morizon] %d result page(s) found for %s", pages, baseURL)

	results := s.discover(ctx, baseURL, pages)
	s.logger.Info("[morizon] Discovery done: %d listings", len(results))

	s.enrichAll(ctx, results)
	return results, nil
}

// discover fans listing pages out over the listing pool and returns whatever
// was collected by the deadline.
func (s *Scraper) discover(ctx context.Context, baseURL string, pages int) []*models.Result {
	set := models.NewResultSet()
	pool := utils.NewWorkerPool(s.opts.ListingWorkers)
	s.logger.Info("[morizon] Discovering %d page(s) on %d workers", pages, pool.Size())

	for page := 1; page <= pages; page++ {
		pageURL := PageURL(baseURL, page)
		pool.Submit(ctx, func() {
			if err := s.fetchListingPage(ctx, pageURL, set); err != nil {
				s.logger.Error("[morizon] Page %s failed: %v", pageURL, err)
			}
		})
	}

	if !pool.WaitTimeout(s.opts.ListingTimeout) {
		s.logger.Warn("[morizon] Discovery deadline (%v) passed, continuing with %d listings",
			s.opts.ListingTimeout, set.Len())
	}
	return set.Seal()
}

type enriched struct {
	index  int
	result *models.Result
}

// enrichAll fans detail fetches out over the detail pool. DetailTimeout bounds
// the whole phase, not each task: when it passes, listings not yet enriched
// stay as they are. Each task enriches a private copy which is copied back
// here, so a task that outlives the deadline cannot touch the returned records.
func (s *Scraper) enrichAll(ctx context.Context, results []*models.Result) {
	if len(results) == 0 {
		return
	}

	done := make(chan enriched, len(results))
	pool := utils.NewWorkerPool(s.opts.DetailWorkers)
	s.logger.Info("[morizon] Enriching %d listings on %d workers", len(results), pool.Size())

	for i, r := range results {
		own := r.Clone()
		pool.Submit(ctx, func() {
			if err := s.enrich(ctx, own); err != nil {
				s.logger.Error("[morizon] Details for %s failed: %v", own.URL, err)
				return
			}
			done <- enriched{index: i, result: own}
		})
	}

	finished := make(chan struct{})
	go func() {
		pool.Wait()
		close(finished)
	}()

	deadline := time.NewTimer(s.opts.DetailTimeout)
	defer deadline.Stop()

	count := 0
	for {
		select {
		case e := <-done:
			*results[e.index] = *e.result
			count++
		case <-finished:
			// Drain whatever completed before the pool finished.
			for {
				select {
				case e := <-done:
					*results[e.index] = *e.result
					count++
				default:
					s.logger.Info("[morizon] Enrichment done: %d/%d listings", count, len(results))
					return
				}
			}
		case <-deadline.C:
			s.logger.Warn("[morizon] Enrichment deadline (%v) passed, %d/%d listings enriched",
				s.opts.DetailTimeout, count, len(results))
			return
		}
	}
}
