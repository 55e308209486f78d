package fetch

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"morizon-scraper/storage"
	"morizon-scraper/utils"
)

// CachedFetcher serves bodies from a PageStore and falls back to a live
// Fetcher on a miss. Cached entries never expire.
type CachedFetcher struct {
	store  storage.PageStore
	live   Fetcher
	logger *utils.Logger
	group  singleflight.Group
}

// NewCachedFetcher wraps live with store.
func NewCachedFetcher(store storage.PageStore, live Fetcher, logger *utils.Logger) *CachedFetcher {
	return &CachedFetcher{store: store, live: live, logger: logger}
}

// Fetch implements Fetcher as get-or-fetch keyed by the exact URL.
func (c *CachedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := storage.CacheKey(url)

	if body, ok, err := c.store.Get(key); err != nil {
		return nil, err
	} else if ok {
		c.logger.Debug("[cache] hit %s", url)
		return body, nil
	}

	// Concurrent misses for the same URL share one live request.
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if body, ok, err := c.store.Get(key); err == nil && ok {
			return body, nil
		}

		c.logger.Debug("[cache] miss %s", url)
		body, err := c.live.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := c.store.PutIfAbsent(key, body); err != nil {
			return nil, fmt.Errorf("store %s: %w", url, err)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
