package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Filters are the search-form options encoded into the results URL query.
type Filters struct {
	// AddedAt is the "added within" window name, e.g. "added_at_7".
	AddedAt     string `yaml:"added_at"`
	DateFilter  int    `yaml:"date_filter"`
	Owners      []int  `yaml:"owners"`
	WithPrice   bool   `yaml:"with_price"`
	WithPhoto   bool   `yaml:"with_photo"`
	MarketTypes []int  `yaml:"market_types"`
}

// DefaultFilters selects listings from the last 30 days with a price, photo
// optional, primary and secondary market, private owners and agencies.
func DefaultFilters() Filters {
	return Filters{
		AddedAt:     "added_at_7",
		DateFilter:  30,
		Owners:      []int{1, 4, 2, 128},
		WithPrice:   true,
		WithPhoto:   false,
		MarketTypes: []int{1, 2},
	}
}

// LoadFilters reads Filters from a YAML file.
func LoadFilters(path string) (Filters, error) {
	var f Filters
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config: read filters %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("config: parse filters %s: %w", path, err)
	}
	return f, nil
}

// Query renders the filters in the site's ps[...] query format. Brackets are
// kept literal and parameter order is fixed, so the same filters always give
// the same URL (and cache key).
func (f Filters) Query() string {
	var parts []string
	if f.AddedAt != "" {
		parts = append(parts, "ps[ext_prp][date_filter]="+f.AddedAt)
	}
	if f.DateFilter > 0 {
		parts = append(parts, "ps[date_filter]="+strconv.Itoa(f.DateFilter))
	}
	for i, o := range f.Owners {
		parts = append(parts, fmt.Sprintf("ps[owner][%d]=%d", i, o))
	}
	parts = append(parts, "ps[with_price]="+boolFlag(f.WithPrice))
	parts = append(parts, "ps[with_photo]="+boolFlag(f.WithPhoto))
	for i, m := range f.MarketTypes {
		parts = append(parts, fmt.Sprintf("ps[market_type][%d]=%d", i, m))
	}
	return strings.Join(parts, "&")
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
