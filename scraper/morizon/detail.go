package morizon

import (
	"context"

	"morizon-scraper/models"
)

// enrich fetches r's detail page and fills in every field that could be
// parsed. r must not be shared with any other goroutine while this runs.
func (s *Scraper) enrich(ctx context.Context, r *models.Result) error {
	s.logger.Debug("[morizon] Fetching details for %s", tail(r.URL, 40))

	doc, err := s.document(ctx, r.URL)
	if err != nil {
		return err
	}

	details, err := ExtractDetails(doc, r.URL, s.cleaner)
	if err != nil {
		return err
	}
	r.Apply(details)

	s.logger.Debug("[morizon] Finished %s", tail(r.URL, 40))
	return nil
}
