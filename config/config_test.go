package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultQuery = "ps[ext_prp][date_filter]=added_at_7&ps[date_filter]=30" +
	"&ps[owner][0]=1&ps[owner][1]=4&ps[owner][2]=2&ps[owner][3]=128" +
	"&ps[with_price]=1&ps[with_photo]=0" +
	"&ps[market_type][0]=1&ps[market_type][1]=2"

func TestDefaultFiltersQuery(t *testing.T) {
	assert.Equal(t, defaultQuery, DefaultFilters().Query())
}

func TestStartURL(t *testing.T) {
	c := &Config{}
	u, err := c.StartURL()
	require.NoError(t, err)
	assert.Equal(t, SearchURL+"?"+defaultQuery, u)

	c.BaseURL = "https://www.morizon.pl/mieszkania/sopot/"
	u, err = c.StartURL()
	require.NoError(t, err)
	assert.Equal(t, "https://www.morizon.pl/mieszkania/sopot/", u)
}

func TestStartURLFromFiltersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.yaml")
	yaml := `
date_filter: 7
owners: [1]
with_price: false
with_photo: true
market_types: [2]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	c := &Config{FiltersFile: path}
	u, err := c.StartURL()
	require.NoError(t, err)
	assert.Equal(t, SearchURL+"?ps[date_filter]=7&ps[owner][0]=1&ps[with_price]=0&ps[with_photo]=1&ps[market_type][0]=2", u)
}

func TestStartURLMissingFiltersFile(t *testing.T) {
	c := &Config{FiltersFile: filepath.Join(t.TempDir(), "nope.yaml")}
	_, err := c.StartURL()
	assert.Error(t, err)
}

func TestEnvDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, 8, cfg.ListingWorkers)
	assert.Equal(t, 60*time.Second, cfg.ListingTimeout)
	assert.Equal(t, 300*time.Second, cfg.DetailTimeout)
	assert.Equal(t, "cached_pages", cfg.CacheDir)
	assert.Equal(t, "result.csv", cfg.OutputPath)
	assert.Zero(t, cfg.RateLimit())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LISTING_WORKERS", "2")
	t.Setenv("RATE_LIMIT_MS", "250")
	t.Setenv("FETCH_MODE", "browser")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, 2, cfg.ListingWorkers)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimit())
	assert.Equal(t, "browser", cfg.FetchMode)
}
