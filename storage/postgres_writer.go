package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"morizon-scraper/models"
)

// PostgresWriter persists enriched results to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS morizon_listings (
			id                SERIAL PRIMARY KEY,
			url               TEXT UNIQUE NOT NULL,
			short_title       TEXT NOT NULL DEFAULT '',
			short_description TEXT NOT NULL DEFAULT '',
			title             TEXT,
			price             NUMERIC(14,2),
			price_per_m2      NUMERIC(12,2),
			rooms             INTEGER,
			area              NUMERIC(10,2),
			date_added        DATE,
			date_built        INTEGER,
			floor             INTEGER,
			floors            INTEGER,
			lat               DOUBLE PRECISION,
			lng               DOUBLE PRECISION,
			scraped_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_morizon_listings_price ON morizon_listings(price);
		CREATE INDEX IF NOT EXISTS idx_morizon_listings_date  ON morizon_listings(date_added);
	`)
	return err
}

// Write upserts all results in batches, keyed by URL.
func (pw *PostgresWriter) Write(results []*models.Result) error {
	const batchSize = 50
	for i := 0; i < len(results); i += batchSize {
		end := i + batchSize
		if end > len(results) {
			end = len(results)
		}
		if err := pw.upsertBatch(results[i:end]); err != nil {
			return err
		}
	}
	return nil
}

const columnsPerRow = 14

func (pw *PostgresWriter) upsertBatch(batch []*models.Result) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*columnsPerRow)

	for idx, r := range batch {
		placeholders := make([]string, columnsPerRow)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*columnsPerRow+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.URL, r.ShortTitle, r.ShortDescription, r.Title, r.Price, r.PricePerM2,
			r.Rooms, r.Area, r.DateAdded, r.DateBuilt, r.Floor, r.Floors, r.Lat, r.Lng)
	}

	query := fmt.Sprintf(`
		INSERT INTO morizon_listings (url, short_title, short_description, title, price,
			price_per_m2, rooms, area, date_added, date_built, floor, floors, lat, lng)
		VALUES %s
		ON CONFLICT (url) DO UPDATE SET
			short_title = EXCLUDED.short_title,
			short_description = EXCLUDED.short_description,
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			price_per_m2 = EXCLUDED.price_per_m2,
			rooms = EXCLUDED.rooms,
			area = EXCLUDED.area,
			date_added = EXCLUDED.date_added,
			date_built = EXCLUDED.date_built,
			floor = EXCLUDED.floor,
			floors = EXCLUDED.floors,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			scraped_at = NOW()
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings.
func (pw *PostgresWriter) FetchAll() ([]*models.Result, error) {
	rows, err := pw.db.Query(`
		SELECT url, short_title, short_description, title, price, price_per_m2, rooms,
			area, date_added, date_built, floor, floors, lat, lng
		FROM morizon_listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		r := &models.Result{}
		if err := rows.Scan(
			&r.URL, &r.ShortTitle, &r.ShortDescription, &r.Title, &r.Price, &r.PricePerM2,
			&r.Rooms, &r.Area, &r.DateAdded, &r.DateBuilt, &r.Floor, &r.Floors, &r.Lat, &r.Lng,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
