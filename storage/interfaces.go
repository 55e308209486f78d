package storage

import "morizon-scraper/models"

// ResultWriter is the interface any output backend must satisfy.
type ResultWriter interface {
	Write(results []*models.Result) error
	Close() error
}
