package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"morizon-scraper/models"
)

// Header lists one column per Result field.
var Header = []string{
	"short_title", "url", "short_description",
	"title", "price", "price_per_m2", "rooms", "area",
	"date_added", "date_built", "floor", "floors", "lat", "lng",
}

// CSVWriter writes results to a CSV file. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per result. Absent values are written as empty cells.
func (c *CSVWriter) Write(results []*models.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range results {
		if err := c.writer.Write(Row(r)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// Row renders r in Header order.
func Row(r *models.Result) []string {
	date := ""
	if r.DateAdded != nil {
		date = r.DateAdded.Format("2006-01-02")
	}
	return []string{
		r.ShortTitle,
		r.URL,
		r.ShortDescription,
		str(r.Title),
		float(r.Price),
		float(r.PricePerM2),
		integer(r.Rooms),
		float(r.Area),
		date,
		integer(r.DateBuilt),
		integer(r.Floor),
		integer(r.Floors),
		float(r.Lat),
		float(r.Lng),
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func float(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func integer(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
