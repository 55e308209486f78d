package morizon

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"morizon-scraper/models"
)

// fetchListingPage fetches one results page, extracts its summaries and adds
// them to set. Fetching and parsing happen outside the set's lock.
func (s *Scraper) fetchListingPage(ctx context.Context, pageURL string, set *models.ResultSet) error {
	s.logger.Info("[morizon] Fetching page: %s", tail(pageURL, 10))

	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return err
	}

	summaries, err := ExtractSummaries(doc, pageURL)
	if err != nil {
		return err
	}

	added := 0
	for _, r := range summaries {
		ok, err := set.Append(r)
		if errors.Is(err, models.ErrResultSetSealed) {
			s.logger.Warn("[morizon] Page %s finished after discovery deadline, %d rows dropped",
				tail(pageURL, 10), len(summaries)-added)
			return nil
		}
		if ok {
			added++
		}
	}

	s.logger.Info("[morizon] Page: %s completed (%d listings, %d new)", tail(pageURL, 10), len(summaries), added)
	return nil
}

func (s *Scraper) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
